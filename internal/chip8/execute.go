package chip8

import (
	"errors"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrogolib/log"
)

// Execute decodes and executes a single instruction word. The program counter is
// expected to point behind the instruction already, as done by Step.
// The result reports whether the screen should be refreshed. A returned error is a
// *Fault that halts the machine until it is reset.
func (m *Machine) Execute(instruction uint16) (bool, error) {
	address := m.pc - 2
	if m.debug {
		m.logger.Debug("Execute",
			log.Hex("pc", address),
			log.Hex("opcode", instruction),
			log.String("instruction", disasm.Format(instruction)))
	}

	drew, err := m.execute(instruction)
	m.settleKeys()
	if err != nil {
		fault := &Fault{
			Kind:   faultKind(err),
			Opcode: instruction,
			PC:     address,
		}
		m.fault = fault
		return false, fault
	}
	return drew, nil
}

func faultKind(err error) FaultKind {
	switch {
	case errors.Is(err, ErrUnknownInstruction):
		return FaultUnknownInstruction
	case errors.Is(err, ErrStackOverflow):
		return FaultStackOverflow
	case errors.Is(err, ErrStackUnderflow):
		return FaultStackUnderflow
	default:
		return FaultMemoryAccess
	}
}

//nolint:cyclop,funlen // flat opcode dispatch
func (m *Machine) execute(op uint16) (bool, error) {
	x := uint8(op>>8) & 0xF
	y := uint8(op>>4) & 0xF
	n := uint8(op) & 0xF
	kk := uint8(op)
	addr := op & 0x0FFF

	if _, known := disasm.Decode(op); !known {
		return false, ErrUnknownInstruction
	}

	switch op >> 12 {
	case 0x0:
		switch op {
		case 0x00E0:
			m.clearDisplay()
			return !m.reduceFlicker, nil
		case 0x00EE:
			return false, m.ret()
		}

	case 0x1:
		m.pc = addr
		return false, nil

	case 0x2:
		return false, m.call(addr)

	case 0x3:
		m.skipIf(m.v[x] == kk)
		return false, nil

	case 0x4:
		m.skipIf(m.v[x] != kk)
		return false, nil

	case 0x5:
		if n == 0 {
			m.skipIf(m.v[x] == m.v[y])
			return false, nil
		}

	case 0x6:
		m.v[x] = kk
		return false, nil

	case 0x7:
		m.v[x] += kk
		return false, nil

	case 0x8:
		return false, m.executeArithmetic(x, y, n)

	case 0x9:
		if n == 0 {
			m.skipIf(m.v[x] != m.v[y])
			return false, nil
		}

	case 0xA:
		m.i = addr
		return false, nil

	case 0xB:
		if m.superChip {
			m.pc = uint16(m.v[x]) + addr
		} else {
			m.pc = uint16(m.v[0]) + addr
		}
		return false, nil

	case 0xC:
		m.v[x] = m.random.RandomByte() & kk
		return false, nil

	case 0xD:
		return m.draw(m.v[x], m.v[y], n)

	case 0xE:
		switch kk {
		case 0x9E:
			m.skipIf(m.keys[m.v[x]&0xF] == Pressed)
			return false, nil
		case 0xA1:
			m.skipIf(m.keys[m.v[x]&0xF] != Pressed)
			return false, nil
		}

	case 0xF:
		return false, m.executeMisc(x, kk)
	}

	return false, ErrUnknownInstruction
}

// executeArithmetic handles the 8XYN register operations. Flag writes happen
// after the result write so that VF holds the flag when X is F.
func (m *Machine) executeArithmetic(x, y, n uint8) error {
	switch n {
	case 0x0:
		m.v[x] = m.v[y]

	case 0x1:
		m.v[x] |= m.v[y]
		m.resetFlagQuirk()

	case 0x2:
		m.v[x] &= m.v[y]
		m.resetFlagQuirk()

	case 0x3:
		m.v[x] ^= m.v[y]
		m.resetFlagQuirk()

	case 0x4:
		sum := uint16(m.v[x]) + uint16(m.v[y])
		m.v[x] = uint8(sum)
		m.v[0xF] = flag(sum > 0xFF)

	case 0x5:
		noBorrow := m.v[x] >= m.v[y]
		m.v[x] -= m.v[y]
		m.v[0xF] = flag(noBorrow)

	case 0x6:
		if !m.superChip {
			m.v[x] = m.v[y]
		}
		bit := m.v[x] & 0x01
		m.v[x] >>= 1
		m.v[0xF] = bit

	case 0x7:
		noBorrow := m.v[y] >= m.v[x]
		m.v[x] = m.v[y] - m.v[x]
		m.v[0xF] = flag(noBorrow)

	case 0xE:
		if !m.superChip {
			m.v[x] = m.v[y]
		}
		bit := m.v[x] >> 7
		m.v[x] <<= 1
		m.v[0xF] = bit

	default:
		return ErrUnknownInstruction
	}
	return nil
}

// executeMisc handles the FXKK timer, key, index and memory transfer instructions.
func (m *Machine) executeMisc(x, kk uint8) error {
	switch kk {
	case 0x07:
		m.v[x] = m.delay

	case 0x0A:
		m.waitForKey(x)

	case 0x15:
		m.delay = m.v[x]

	case 0x18:
		m.sound = m.v[x]

	case 0x1E:
		m.i += uint16(m.v[x])
		if m.i >= MemorySize {
			m.v[0xF] = 1
		}

	case 0x29:
		m.i = glyphAddress(m.v[x])

	case 0x33:
		return m.storeBCD(m.v[x])

	case 0x55:
		return m.storeRegisters(x)

	case 0x65:
		return m.loadRegisters(x)

	default:
		return ErrUnknownInstruction
	}
	return nil
}

// resetFlagQuirk clears VF after a logic operation on the original CHIP-8.
func (m *Machine) resetFlagQuirk() {
	if !m.superChip {
		m.v[0xF] = 0
	}
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2
	}
}

func (m *Machine) call(addr uint16) error {
	if m.sp >= StackSize {
		return ErrStackOverflow
	}
	m.stack[m.sp] = m.pc
	m.sp++
	m.pc = addr
	return nil
}

func (m *Machine) ret() error {
	if m.sp == 0 {
		return ErrStackUnderflow
	}
	m.sp--
	m.pc = m.stack[m.sp]
	m.stack[m.sp] = 0
	return nil
}

// waitForKey stores the lowest just released key in VX, or rewinds the program
// counter to execute the instruction again.
func (m *Machine) waitForKey(x uint8) {
	for key, state := range m.keys {
		if state == JustReleased {
			m.keys[key] = Released
			m.v[x] = uint8(key)
			return
		}
	}
	m.pc -= 2
}

// storeBCD writes the decimal digits of value to memory at I, without leading zeros.
func (m *Machine) storeBCD(value uint8) error {
	var digits []byte
	switch {
	case value < 10:
		digits = []byte{value}
	case value < 100:
		digits = []byte{value / 10, value % 10}
	default:
		digits = []byte{value / 100, value / 10 % 10, value % 10}
	}

	if int(m.i)+len(digits) > MemorySize {
		return ErrMemoryAccess
	}
	copy(m.memory[m.i:], digits)
	return nil
}

// storeRegisters writes V0..VX to memory at I. The original CHIP-8 advances I
// past the stored bytes, SUPER-CHIP leaves it unchanged.
func (m *Machine) storeRegisters(x uint8) error {
	count := int(x) + 1
	if int(m.i)+count > MemorySize {
		return ErrMemoryAccess
	}

	cursor := m.i
	for reg := range count {
		m.memory[cursor] = m.v[reg]
		cursor++
	}
	if !m.superChip {
		m.i = cursor
	}
	return nil
}

// loadRegisters reads V0..VX from memory at I with the same index quirk as storeRegisters.
func (m *Machine) loadRegisters(x uint8) error {
	count := int(x) + 1
	if int(m.i)+count > MemorySize {
		return ErrMemoryAccess
	}

	cursor := m.i
	for reg := range count {
		m.v[reg] = m.memory[cursor]
		cursor++
	}
	if !m.superChip {
		m.i = cursor
	}
	return nil
}

func flag(condition bool) uint8 {
	if condition {
		return 1
	}
	return 0
}
