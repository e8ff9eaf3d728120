// Package disasm implements a linear CHIP-8 disassembler used for listings and instruction tracing.
package disasm

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%03x"
	labelNaming = "_label_%03x"
)

// Line is a single disassembled instruction word.
type Line struct {
	Address uint16
	Word    uint16
	Label   string
	Code    string
	Known   bool // the word decoded to an instruction
}

// Disasm disassembles a ROM image loaded at a base address.
type Disasm struct {
	base uint16
	data []byte

	branchDestinations set.Set[uint16] // set of all addresses that are jumped to
	callDestinations   set.Set[uint16] // set of all addresses that are called
}

// New returns a disassembler for data loaded at the base address.
func New(data []byte, base uint16) *Disasm {
	return &Disasm{
		base:               base,
		data:               data,
		branchDestinations: set.New[uint16](),
		callDestinations:   set.New[uint16](),
	}
}

// Process disassembles the data word by word. Jump and call destinations inside
// the image get a label. A trailing odd byte is output as a byte directive.
func (dis *Disasm) Process() []Line {
	lines := make([]Line, 0, len(dis.data)/2+1)
	for offset := 0; offset < len(dis.data); offset += 2 {
		address := dis.base + uint16(offset)
		if offset+1 >= len(dis.data) {
			lines = append(lines, Line{
				Address: address,
				Word:    uint16(dis.data[offset]),
				Code:    fmt.Sprintf(".byte $%02X", dis.data[offset]),
			})
			break
		}

		word := uint16(dis.data[offset])<<8 | uint16(dis.data[offset+1])
		ins, known := Decode(word)
		if known {
			dis.collectDestination(ins, word)
		}
		lines = append(lines, Line{
			Address: address,
			Word:    word,
			Code:    Format(word),
			Known:   known,
		})
	}

	dis.processJumpDestinations(lines)
	return lines
}

// collectDestination records the target of jump and call instructions.
func (dis *Disasm) collectDestination(ins *chip8cpu.Instruction, word uint16) {
	target := word & 0x0FFF
	switch {
	case ins == chip8cpu.CallInst:
		dis.callDestinations.Add(target)
	case ins == chip8cpu.JpInst && word&0xF000 == 0x1000:
		dis.branchDestinations.Add(target)
	}
}

// processJumpDestinations assigns label names to all lines that are jump or call destinations.
func (dis *Disasm) processJumpDestinations(lines []Line) {
	destinations := make([]uint16, 0, len(dis.branchDestinations)+len(dis.callDestinations))
	for dest := range dis.branchDestinations {
		destinations = append(destinations, dest)
	}
	for dest := range dis.callDestinations {
		if !dis.branchDestinations.Contains(dest) {
			destinations = append(destinations, dest)
		}
	}
	slices.Sort(destinations)

	for _, address := range destinations {
		if address < dis.base || address&1 != dis.base&1 {
			continue
		}
		index := int(address-dis.base) / 2
		if index >= len(lines) {
			continue
		}

		if dis.callDestinations.Contains(address) {
			lines[index].Label = fmt.Sprintf(funcNaming, address)
		} else {
			lines[index].Label = fmt.Sprintf(labelNaming, address)
		}
	}
}

// Write outputs the lines as an aligned listing with addresses and raw words.
func Write(w io.Writer, lines []Line) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, line := range lines {
		if line.Label != "" {
			if _, err := fmt.Fprintf(tw, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}
		if _, err := fmt.Fprintf(tw, "\t%s\t; $%03X: %04X\n", line.Code, line.Address, line.Word); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing listing: %w", err)
	}
	return nil
}
