package disasm

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Decode returns the instruction definition that matches the instruction word.
func Decode(word uint16) (*chip8cpu.Instruction, bool) {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8cpu.Opcodes[int(firstNibble)] {
		if op.Info.Mask&word == op.Info.Value && op.Instruction != nil {
			return op.Instruction, true
		}
	}
	return nil, false
}

// Format returns the assembly text of an instruction word, unknown words are
// formatted as a data word.
func Format(word uint16) string {
	ins, ok := Decode(word)
	if !ok {
		return fmt.Sprintf(".word $%04X", word)
	}
	if params := formatParams(word); params != "" {
		return fmt.Sprintf("%s %s", ins.Name, params)
	}
	return ins.Name
}

// formatParams formats the operands of an instruction word. The operands only
// depend on the opcode layout, not on the instruction name.
//
//nolint:cyclop // flat opcode layout switch
func formatParams(word uint16) string {
	x := extractRegisterX(word)
	y := extractRegisterY(word)
	kk := word & 0x00FF
	addr := word & 0x0FFF

	switch word & 0xF000 {
	case 0x0000:
		return ""
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", addr)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", x, kk)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8000:
		return formatArithmetic(word)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", addr)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", addr)
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, word&0x000F)
	case 0xE000:
		return fmt.Sprintf("V%X", x)
	case 0xF000:
		return formatMisc(word)
	}
	return ""
}

// formatArithmetic formats the 8XYN register operations.
func formatArithmetic(word uint16) string {
	x := extractRegisterX(word)
	if n := word & 0x000F; n == 0x6 || n == 0xE {
		return fmt.Sprintf("V%X", x)
	}
	return fmt.Sprintf("V%X, V%X", x, extractRegisterY(word))
}

// formatMisc formats the FXKK timer, key, index and memory transfer instructions.
func formatMisc(word uint16) string {
	x := extractRegisterX(word)
	switch word & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
