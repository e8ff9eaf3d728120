// Package pipeline orchestrates the emulator workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/host"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/screenshot"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates loading, configuring and running a ROM.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulator pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline: the ROM is loaded and either listed as
// disassembly or run by the headless or the terminal host.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, input io.Reader, output io.Writer) error {
	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	if opts.Disasm {
		return writeListing(rom, output)
	}

	machine, err := p.ExecuteWithROM(ctx, rom, opts, input, output)
	if machine == nil || opts.Screenshot == "" {
		return err
	}

	fb := machine.Framebuffer()
	if shotErr := screenshot.WriteFile(opts.Screenshot, &fb, screenshot.DefaultScale); shotErr != nil {
		if err != nil {
			return err
		}
		return fmt.Errorf("writing screenshot: %w", shotErr)
	}
	p.logger.Info("Screenshot written", log.String("file", opts.Screenshot))
	return err
}

// ExecuteWithROM runs the pipeline with pre-loaded ROM data.
// This is useful for testing and programmatic usage where the ROM is already in memory.
// The machine is returned for inspection also when running it failed.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program,
	input io.Reader, output io.Writer) (*chip8.Machine, error) {

	superChip := p.detector.Detect(opts)
	machine, err := p.createMachine(opts, superChip, rom)
	if err != nil {
		return nil, fmt.Errorf("creating machine: %w", err)
	}

	p.printInfo(opts, len(rom), superChip)

	hostCfg := host.Config{
		FrameDuration: opts.FrameDuration(),
		TickRate:      host.DefaultTickRate,
		Fade:          uint8(min(opts.Fade, 255)),
		Frames:        opts.Frames,
	}

	if opts.Headless {
		runner := host.NewHeadless(p.logger, machine, hostCfg)
		stats, err := runner.Run(ctx)
		if err != nil {
			return machine, fmt.Errorf("running headless: %w", err)
		}
		if !opts.Quiet {
			p.logger.Info("Run finished",
				log.Int("frames", int(stats.Frames)),
				log.Int("draw_frames", int(stats.DrawFrames)),
				log.Hex("pc", machine.PC()))
		}
		return machine, nil
	}

	// the terminal host runs until the user quits
	hostCfg.Frames = 0
	runner := host.NewTerminal(p.logger, machine, hostCfg, input, output)
	if err := runner.Run(ctx); err != nil {
		return machine, fmt.Errorf("running terminal: %w", err)
	}
	return machine, nil
}

// createMachine creates the machine, inserts the ROM and sets the breakpoints.
func (p *Pipeline) createMachine(opts options.Program, superChip bool, rom []byte) (*chip8.Machine, error) {
	breakpoints, err := config.ParseBreakpoints(opts.Breakpoints)
	if err != nil {
		return nil, fmt.Errorf("parsing breakpoints: %w", err)
	}

	machine, err := chip8.New(config.CreateMachineConfig(p.logger, opts, superChip))
	if err != nil {
		return nil, fmt.Errorf("initializing machine: %w", err)
	}
	if err := machine.InsertCartridge(rom); err != nil {
		return nil, fmt.Errorf("inserting cartridge: %w", err)
	}

	for _, address := range breakpoints {
		machine.AddBreakpoint(address)
	}
	return machine, nil
}

// writeListing writes the disassembly listing of the ROM.
func writeListing(rom []byte, output io.Writer) error {
	lines := disasm.New(rom, chip8.ProgramStart).Process()
	if err := disasm.Write(output, lines); err != nil {
		return fmt.Errorf("writing disassembly: %w", err)
	}
	return nil
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, size int, superChip bool) {
	if opts.Quiet {
		return
	}

	mode := options.ModeChip8
	if superChip {
		mode = options.ModeSuperChip
	}
	p.logger.Info("Running Chip-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.String("mode", mode),
		log.String("clock", fmt.Sprintf("%d Hz", opts.ClockHz)),
	)
}
