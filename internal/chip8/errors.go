package chip8

import (
	"errors"
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

var (
	// ErrUnknownInstruction is returned for an instruction word that does not decode.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrStackOverflow is returned for a call with a full stack.
	ErrStackOverflow = chip8cpu.ErrStackOverflow
	// ErrStackUnderflow is returned for a return with an empty stack.
	ErrStackUnderflow = chip8cpu.ErrStackUnderflow
	// ErrMemoryAccess is returned when an instruction accesses memory beyond 4KB.
	ErrMemoryAccess = chip8cpu.ErrMemoryOutOfBounds

	// ErrROMTooLarge is returned when a ROM does not fit into the program space.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrInvalidClock is returned for a zero clock frequency.
	ErrInvalidClock = errors.New("invalid clock frequency")
	// ErrInvalidKey is returned for a key index outside of 0-15.
	ErrInvalidKey = chip8cpu.ErrKeyIndexOutOfBounds
)

// FaultKind describes the reason that halted the machine.
type FaultKind uint8

// Fault kinds.
const (
	FaultUnknownInstruction FaultKind = iota + 1
	FaultStackOverflow
	FaultStackUnderflow
	FaultMemoryAccess
)

func (k FaultKind) String() string {
	return k.sentinel().Error()
}

func (k FaultKind) sentinel() error {
	switch k {
	case FaultUnknownInstruction:
		return ErrUnknownInstruction
	case FaultStackOverflow:
		return ErrStackOverflow
	case FaultStackUnderflow:
		return ErrStackUnderflow
	default:
		return ErrMemoryAccess
	}
}

// Fault is a fatal execution error. The machine stays halted until it is reset.
type Fault struct {
	Kind   FaultKind
	Opcode uint16 // instruction word that faulted
	PC     uint16 // address of the faulting instruction
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: instruction %04X at %03X", f.Kind, f.Opcode, f.PC)
}

// Unwrap returns the sentinel error of the fault kind.
func (f *Fault) Unwrap() error {
	return f.Kind.sentinel()
}
