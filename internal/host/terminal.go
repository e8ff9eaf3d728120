package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// KeyHoldDuration is the time a key counts as held after its last key press.
// Terminals do not report key releases, held keys repeat instead.
const KeyHoldDuration = 150 * time.Millisecond

const (
	keyEscape = 0x1B
	keyCtrlC  = 0x03
)

var errQuit = errors.New("quit")

// Terminal runs a machine in a text terminal, using raw keyboard input and ANSI output.
type Terminal struct {
	logger  *log.Logger
	machine Machine
	cfg     Config
	input   io.Reader
	output  io.Writer

	mu      sync.Mutex // serializes machine access between input and frame loop
	pressed map[uint8]time.Time
	beeping bool
}

// NewTerminal returns a new terminal runner.
func NewTerminal(logger *log.Logger, machine Machine, cfg Config, input io.Reader, output io.Writer) *Terminal {
	return &Terminal{
		logger:  logger,
		machine: machine,
		cfg:     cfg,
		input:   input,
		output:  output,
		pressed: make(map[uint8]time.Time),
	}
}

// Run starts the machine and renders it until the user quits, the machine faults
// or the context is cancelled. Stdin is switched to raw mode for the duration of the run.
func (t *Terminal) Run(ctx context.Context) error {
	restore, err := t.setupTerminal()
	if err != nil {
		return err
	}
	defer restore()

	t.mu.Lock()
	t.machine.Run()
	fb := t.machine.Framebuffer()
	err = Render(t.output, &fb, statusLine(t.machine))
	t.mu.Unlock()
	if err != nil {
		return err
	}

	keys := make(chan byte, 64)
	done := make(chan struct{})
	defer close(done)
	go t.readInput(done, keys)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return t.processInput(ctx, keys)
	})
	group.Go(func() error {
		return t.frameLoop(ctx)
	})

	err = group.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// setupTerminal switches an interactive stdin to raw mode and returns the function
// that restores the previous terminal state.
func (t *Terminal) setupTerminal() (func(), error) {
	_, _ = io.WriteString(t.output, ansiClear+ansiHideCursor)
	restoreCursor := func() {
		_, _ = io.WriteString(t.output, ansiShowCursor)
	}

	file, ok := t.input.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return restoreCursor, nil
	}

	fd := int(file.Fd())
	if width, height, err := term.GetSize(fd); err == nil &&
		(width < chip8.DisplayWidth || height < chip8.DisplayHeight/2+1) {
		t.logger.Warn("Terminal is smaller than the display",
			log.Int("width", width),
			log.Int("height", height))
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}
	return func() {
		restoreCursor()
		if err := term.Restore(fd, state); err != nil {
			t.logger.Error("Restoring terminal state failed", log.Err(err))
		}
	}, nil
}

// readInput forwards input bytes until the input is closed or done is closed. It is
// not part of the error group as a blocking read can not be cancelled.
func (t *Terminal) readInput(done <-chan struct{}, keys chan<- byte) {
	defer close(keys)

	buf := make([]byte, 16)
	for {
		n, err := t.input.Read(buf)
		for _, b := range buf[:n] {
			select {
			case keys <- b:
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (t *Terminal) processInput(ctx context.Context, keys <-chan byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys:
			if !ok {
				return nil
			}
			if err := t.handleKey(b, time.Now()); err != nil {
				return err
			}
		}
	}
}

// handleKey processes a single input byte.
func (t *Terminal) handleKey(b byte, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch b {
	case keyEscape, keyCtrlC:
		return errQuit

	case 'p', 'P':
		if t.machine.Paused() {
			t.machine.Run()
		} else {
			t.machine.Pause()
		}
		return nil

	case 'n', 'N':
		if !t.machine.Paused() {
			return nil
		}
		if _, err := t.machine.Step(0); err != nil {
			return fmt.Errorf("single stepping: %w", err)
		}
		fb := t.machine.Framebuffer()
		return Render(t.output, &fb, statusLine(t.machine))
	}

	key, ok := keymap.Lookup(rune(b))
	if !ok {
		return nil
	}
	t.pressed[key] = now
	if err := t.machine.KeyDown(key); err != nil {
		return fmt.Errorf("pressing key: %w", err)
	}
	return nil
}

// releaseKeys releases all keys that were not repeated within the hold duration.
func (t *Terminal) releaseKeys(now time.Time) error {
	for key, pressedAt := range t.pressed {
		if now.Sub(pressedAt) < KeyHoldDuration {
			continue
		}
		delete(t.pressed, key)
		if err := t.machine.KeyUp(key); err != nil {
			return fmt.Errorf("releasing key: %w", err)
		}
	}
	return nil
}

func (t *Terminal) frameLoop(ctx context.Context) error {
	ticker := time.NewTicker(t.cfg.FrameDuration)
	defer ticker.Stop()

	var frames uint
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := t.frame(now); err != nil {
				return err
			}
			frames++
			if t.cfg.Frames > 0 && frames >= t.cfg.Frames {
				return errQuit
			}
		}
	}
}

// frame advances the machine by one frame and renders it if the screen changed.
func (t *Terminal) frame(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.releaseKeys(now); err != nil {
		return err
	}

	tick := tickDuration(t.cfg, t.machine.ClockHz())
	result, err := runFrame(t.machine, t.cfg.FrameDuration, tick)
	if err != nil {
		return fmt.Errorf("running frame: %w", err)
	}
	t.machine.Decay(t.cfg.Fade)

	if result.Beep && !t.beeping {
		if _, err := io.WriteString(t.output, bell); err != nil {
			return fmt.Errorf("writing bell: %w", err)
		}
	}
	t.beeping = result.Beep

	if !result.Drew && !result.Break && !t.machine.ConsumeReset() && t.cfg.Fade == 0 {
		return nil
	}
	fb := t.machine.Framebuffer()
	return Render(t.output, &fb, statusLine(t.machine))
}
