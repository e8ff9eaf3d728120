// Package chip8 implements the CHIP-8 virtual machine: memory, registers, stack, timers,
// display and input latch, driven by a fetch-decode-execute loop.
package chip8

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter area, the font glyphs live at 0x050-0x09F
//	0x200-0xFFF: Program space
const (
	MemorySize    = 4096
	ProgramStart  = 0x200
	MaxROMSize    = MemorySize - ProgramStart
	StackSize     = 16
	RegisterCount = 16
	KeyCount      = 16

	// DefaultClockHz is the instruction clock used when none is configured.
	DefaultClockHz = 600
	// TimerHz is the fixed decrement rate of the delay and sound timers.
	TimerHz = 60
)

// State is the run state of the machine.
type State uint8

// Run states.
const (
	Paused State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Config contains the machine settings that survive a reset.
type Config struct {
	ClockHz       uint32 // instruction clock frequency
	SuperChip     bool   // SUPER-CHIP/CHIP-48 quirks instead of the original CHIP-8 behavior
	Trace         bool   // leave a dimmed pixel behind when a sprite erases it
	ReduceFlicker bool   // only report a changed screen when a draw turned pixels on
	Debug         bool   // log every executed instruction

	Random RandomSource
	Logger *log.Logger
}

// DefaultConfig returns the default machine configuration.
func DefaultConfig() Config {
	return Config{
		ClockHz:   DefaultClockHz,
		SuperChip: true,
	}
}

// Machine is a CHIP-8 virtual machine. It is not safe for concurrent use,
// input latch writes and Step calls have to be serialized by the caller.
type Machine struct {
	logger *log.Logger
	random RandomSource

	clockHz       uint32
	superChip     bool
	trace         bool
	reduceFlicker bool
	debug         bool

	memory  [MemorySize]byte
	v       [RegisterCount]uint8
	i       uint16
	pc      uint16
	stack   [StackSize]uint16
	sp      uint8
	delay   uint8
	sound   uint8
	display Framebuffer
	keys    [KeyCount]KeyState

	state   State
	romSize int
	reset   bool
	fault   error

	breakpoints set.Set[uint16]
	skipBreakAt int // address of a breakpoint that already paused the machine, -1 if none

	clock   *timer.Timer
	timer60 *timer.Timer
}

// New returns a new machine in the paused state with the font loaded.
func New(cfg Config) (*Machine, error) {
	if cfg.ClockHz == 0 {
		return nil, ErrInvalidClock
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithConfig(log.DefaultConfig())
	}
	if cfg.Random == nil {
		cfg.Random = NewRandom()
	}

	m := &Machine{
		logger:        cfg.Logger,
		random:        cfg.Random,
		clockHz:       cfg.ClockHz,
		superChip:     cfg.SuperChip,
		trace:         cfg.Trace,
		reduceFlicker: cfg.ReduceFlicker,
		debug:         cfg.Debug,
		breakpoints:   set.New[uint16](),
		clock:         timer.FromHz(cfg.ClockHz),
		timer60:       timer.FromHz(TimerHz),
	}
	m.Reset()
	return m, nil
}

// Reset clears all mutable state and reloads the font. The configuration,
// the breakpoints and the clock frequency are kept. The machine is paused
// afterwards and the reset flag is raised.
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontStart:], font[:])
	m.v = [RegisterCount]uint8{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.delay = 0
	m.sound = 0
	m.display = Framebuffer{}
	m.keys = [KeyCount]KeyState{}
	m.state = Paused
	m.romSize = 0
	m.fault = nil
	m.skipBreakAt = -1
	m.clock.Reset()
	m.timer60.Reset()
	m.reset = true
}

// InsertCartridge resets the machine and copies the ROM data to the program start.
func (m *Machine) InsertCartridge(data []byte) error {
	if len(data) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(data), MaxROMSize)
	}

	m.Reset()
	copy(m.memory[ProgramStart:], data)
	m.romSize = len(data)

	m.logger.Debug("Cartridge inserted",
		log.Int("size", len(data)),
		log.Hex("start", uint16(ProgramStart)))
	return nil
}

// ConsumeReset returns whether the machine was reset since the last call and clears the flag.
func (m *Machine) ConsumeReset() bool {
	reset := m.reset
	m.reset = false
	return reset
}

// Pause stops the instruction clock, every following Step executes exactly one instruction.
func (m *Machine) Pause() {
	if m.state != Paused {
		m.logger.Debug("Machine paused", log.Hex("pc", m.pc))
	}
	m.state = Paused
}

// Run starts the instruction clock.
func (m *Machine) Run() {
	if m.state != Running {
		m.logger.Debug("Machine running", log.Hex("pc", m.pc))
	}
	m.state = Running
}

// Paused returns whether the machine is paused.
func (m *Machine) Paused() bool {
	return m.state == Paused
}

// State returns the run state.
func (m *Machine) State() State {
	return m.state
}

// Fault returns the fault that halted the machine, or nil.
func (m *Machine) Fault() error {
	return m.fault
}

// SetTrace enables leaving a dimmed pixel behind when a sprite erases a lit pixel.
func (m *Machine) SetTrace(trace bool) {
	m.trace = trace
}

// Trace returns whether trace mode is enabled.
func (m *Machine) Trace() bool {
	return m.trace
}

// SetReduceFlicker enables reporting a changed screen only for draws that lit pixels.
func (m *Machine) SetReduceFlicker(reduce bool) {
	m.reduceFlicker = reduce
}

// ReduceFlicker returns whether flicker reduction is enabled.
func (m *Machine) ReduceFlicker() bool {
	return m.reduceFlicker
}

// SetDebug enables logging of every executed instruction.
func (m *Machine) SetDebug(debug bool) {
	m.debug = debug
}

// Debug returns whether instruction logging is enabled.
func (m *Machine) Debug() bool {
	return m.debug
}

// SetSuperChip switches between SUPER-CHIP and original CHIP-8 instruction quirks.
func (m *Machine) SetSuperChip(superChip bool) {
	m.superChip = superChip
}

// SuperChip returns whether SUPER-CHIP quirks are active.
func (m *Machine) SuperChip() bool {
	return m.superChip
}

// RAM returns a copy of the memory.
func (m *Machine) RAM() [MemorySize]byte {
	return m.memory
}

// Stack returns a copy of the call stack.
func (m *Machine) Stack() [StackSize]uint16 {
	return m.stack
}

// Registers returns a copy of the V registers.
func (m *Machine) Registers() [RegisterCount]uint8 {
	return m.v
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// SP returns the stack pointer, the number of used stack slots.
func (m *Machine) SP() int {
	return int(m.sp)
}

// Index returns the I register.
func (m *Machine) Index() uint16 {
	return m.i
}

// DelayTimer returns the delay timer value.
func (m *Machine) DelayTimer() uint8 {
	return m.delay
}

// SoundTimer returns the sound timer value.
func (m *Machine) SoundTimer() uint8 {
	return m.sound
}

// ROMSize returns the size of the inserted ROM in bytes.
func (m *Machine) ROMSize() int {
	return m.romSize
}

// ClockHz returns the instruction clock frequency.
func (m *Machine) ClockHz() uint32 {
	return m.clockHz
}

// Snapshot is a copy of the complete machine state for inspection.
type Snapshot struct {
	Memory      [MemorySize]byte
	Registers   [RegisterCount]uint8
	Index       uint16
	PC          uint16
	Stack       [StackSize]uint16
	SP          int
	DelayTimer  uint8
	SoundTimer  uint8
	Framebuffer Framebuffer
	Keys        [KeyCount]KeyState
	State       State
	ROMSize     int
	ClockHz     uint32
	SuperChip   bool
}

// Snapshot returns a copy of the complete machine state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Memory:      m.memory,
		Registers:   m.v,
		Index:       m.i,
		PC:          m.pc,
		Stack:       m.stack,
		SP:          int(m.sp),
		DelayTimer:  m.delay,
		SoundTimer:  m.sound,
		Framebuffer: m.display,
		Keys:        m.keys,
		State:       m.state,
		ROMSize:     m.romSize,
		ClockHz:     m.clockHz,
		SuperChip:   m.superChip,
	}
}
