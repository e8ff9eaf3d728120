package chip8

import (
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// StepResult is the outcome of a single Step call.
type StepResult struct {
	Drew  bool // the screen should be refreshed
	Beep  bool // a tone should be playing
	Break bool // execution paused on a breakpoint before the instruction at PC
}

// Step advances the instruction clock and the 60 Hz timer by elapsed. When paused,
// every call executes one instruction and decrements the timers once.
// When running, an instruction is executed if the instruction clock finished an
// interval and the timers are decremented once if the 60 Hz timer finished an
// interval, regardless of how many intervals elapsed.
func (m *Machine) Step(elapsed time.Duration) (StepResult, error) {
	if m.fault != nil {
		return StepResult{}, m.fault
	}

	m.clock.Tick(elapsed)
	m.timer60.Tick(elapsed)

	paused := m.state == Paused
	var result StepResult

	if paused || m.clock.JustFinished() {
		if m.hitBreakpoint() {
			m.skipBreakAt = int(m.pc)
			m.Pause()
			m.logger.Debug("Breakpoint reached", log.Hex("pc", m.pc))
			result.Break = true
		} else {
			drew, err := m.fetchExecute()
			if err != nil {
				return StepResult{}, err
			}
			result.Drew = drew
		}
	}

	if paused || m.timer60.JustFinished() {
		if m.delay > 0 {
			m.delay--
		}
		if m.sound > 0 {
			m.sound--
		}
	}

	result.Beep = m.state == Running && m.sound != 0
	return result, nil
}

// fetchExecute reads the big-endian instruction word at PC, advances PC and executes it.
func (m *Machine) fetchExecute() (bool, error) {
	if int(m.pc)+2 > MemorySize {
		fault := &Fault{
			Kind: FaultMemoryAccess,
			PC:   m.pc,
		}
		m.fault = fault
		return false, fault
	}

	instruction := uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])
	m.pc += 2
	m.skipBreakAt = -1
	return m.Execute(instruction)
}

func (m *Machine) hitBreakpoint() bool {
	if m.state != Running || len(m.breakpoints) == 0 {
		return false
	}
	return m.breakpoints.Contains(m.pc) && int(m.pc) != m.skipBreakAt
}

// ChangeClock sets a new instruction clock frequency. The machine state is not
// touched, setting the current frequency again is a no-op.
func (m *Machine) ChangeClock(hz uint32) error {
	if hz == 0 {
		return ErrInvalidClock
	}
	if hz == m.clockHz {
		return nil
	}

	m.logger.Debug("Changing clock",
		log.String("from", fmt.Sprintf("%d Hz", m.clockHz)),
		log.String("to", fmt.Sprintf("%d Hz", hz)))
	m.clockHz = hz
	m.clock.SetInterval(timer.IntervalFromHz(hz))
	return nil
}

// AddBreakpoint pauses a running machine before it executes the instruction at address.
func (m *Machine) AddBreakpoint(address uint16) {
	m.breakpoints.Add(address)
}

// RemoveBreakpoint removes the breakpoint at address.
func (m *Machine) RemoveBreakpoint(address uint16) {
	delete(m.breakpoints, address)
}

// ClearBreakpoints removes all breakpoints.
func (m *Machine) ClearBreakpoints() {
	m.breakpoints = set.New[uint16]()
}

// HasBreakpoint returns whether a breakpoint is set at address.
func (m *Machine) HasBreakpoint(address uint16) bool {
	return m.breakpoints.Contains(address)
}
