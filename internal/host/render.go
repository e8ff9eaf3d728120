package host

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

const (
	ansiHome       = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
	bell           = "\a"
)

// halfBlocks maps the lit state of an upper and a lower cell to a character.
var halfBlocks = [2][2]rune{
	{' ', '▄'},
	{'▀', '█'},
}

// Render draws the framebuffer with two display rows per text line, followed by a status line.
// Every cell with a non zero intensity is shown.
func Render(w io.Writer, fb *chip8.Framebuffer, status string) error {
	var sb strings.Builder
	sb.Grow((chip8.DisplayWidth*3 + 2) * (chip8.DisplayHeight/2 + 2))
	sb.WriteString(ansiHome)

	for y := 0; y < chip8.DisplayHeight; y += 2 {
		for x := range chip8.DisplayWidth {
			upper := boolIndex(fb.Pixel(x, y) != chip8.PixelOff)
			lower := boolIndex(fb.Pixel(x, y+1) != chip8.PixelOff)
			sb.WriteRune(halfBlocks[upper][lower])
		}
		sb.WriteString("\r\n")
	}
	sb.WriteString(status)
	sb.WriteString("\x1b[K\r\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// statusLine returns the text shown below the display.
func statusLine(m Machine) string {
	state := "running"
	if m.Paused() {
		state = "paused "
	}
	return fmt.Sprintf("%s  pc $%03X  %d Hz  [esc] quit [p] pause [n] step",
		state, m.PC(), m.ClockHz())
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
