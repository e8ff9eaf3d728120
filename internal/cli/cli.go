// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(osArgs[1:]); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	args := flags.Args()
	if len(args) == 0 && opts.Input == "" {
		return opts, &UsageError{flags: flags, msg: "no ROM file given"}
	}

	if err := validateArgs(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information with all flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return fmt.Errorf("potential argument %s found after ROM file, please pass the ROM file as last argument", arg)
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	if opts.Mode == "superchip" || opts.Mode == "chip48" {
		opts.Mode = options.ModeSuperChip
	}

	if opts.ClockHz == 0 || opts.ClockHz > math.MaxUint32 {
		return fmt.Errorf("invalid clock frequency: %d", opts.ClockHz)
	}
	if opts.FPS == 0 {
		return fmt.Errorf("invalid frame rate: %d", opts.FPS)
	}
	if opts.Fade > 255 {
		return fmt.Errorf("invalid fade amount: %d, maximum is 255", opts.Fade)
	}

	validModes := []string{options.ModeAuto, options.ModeSuperChip, options.ModeChip8}
	for _, valid := range validModes {
		if opts.Mode == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported mode: %s. Valid options: %s",
		opts.Mode, strings.Join(validModes, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "write the final framebuffer to a .bmp file")
	flags.StringVar(&opts.Breakpoints, "break", "", "comma separated breakpoint addresses, for example 0x200,0x2a4")
	flags.StringVar(&opts.Mode, "mode", options.ModeAuto, "compatibility mode (auto/schip/chip8), auto detects by file extension")
	flags.UintVar(&opts.ClockHz, "clock", 600, "instruction clock in Hz")
	flags.UintVar(&opts.FPS, "fps", 60, "host frame rate")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal output")
	flags.UintVar(&opts.Frames, "frames", 600, "number of frames to run in headless mode")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "leave dimmed pixels behind erased sprites")
	flags.BoolVar(&opts.ReduceFlicker, "reduce-flicker", false, "only refresh the screen when a draw lit pixels")
	flags.UintVar(&opts.Fade, "fade", 8, "intensity removed from dimmed pixels per frame")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
