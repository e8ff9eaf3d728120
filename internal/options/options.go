// Package options contains the program options.
package options

import "time"

// Compatibility modes.
const (
	ModeAuto      = "auto"
	ModeSuperChip = "schip"
	ModeChip8     = "chip8"
)

// Parameters contains file path options.
type Parameters struct {
	Input       string `flag:"i" usage:"input ROM file"`
	Screenshot  string `flag:"screenshot" usage:"write the final framebuffer to a .bmp file"`
	Breakpoints string `flag:"break" usage:"comma separated breakpoint addresses (e.g. 0x200,0x2a4)"`
}

// Flags contains behavior options.
type Flags struct {
	Mode     string `flag:"mode" usage:"compatibility mode: auto, schip, chip8" default:"auto"`
	ClockHz  uint   `flag:"clock" usage:"instruction clock in Hz" default:"600"`
	FPS      uint   `flag:"fps" usage:"host frame rate" default:"60"`
	Headless bool   `flag:"headless" usage:"run without terminal output"`
	Frames   uint   `flag:"frames" usage:"number of frames to run in headless mode" default:"600"`
	Disasm   bool   `flag:"disasm" usage:"print a disassembly listing of the ROM and exit"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// DisplayFlags contains display behavior options.
type DisplayFlags struct {
	Trace         bool `flag:"trace" usage:"leave dimmed pixels behind erased sprites"`
	ReduceFlicker bool `flag:"reduce-flicker" usage:"only refresh the screen when a draw lit pixels"`
	Fade          uint `flag:"fade" usage:"intensity removed from dimmed pixels per frame" default:"8"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	DisplayFlags
}

// FrameDuration returns the duration of a single host frame.
func (p Program) FrameDuration() time.Duration {
	if p.FPS == 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(p.FPS)
}
