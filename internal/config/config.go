// Package config handles application configuration and setup
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachineConfig maps the program options to a machine configuration.
func CreateMachineConfig(logger *log.Logger, opts options.Program, superChip bool) chip8.Config {
	cfg := chip8.DefaultConfig()
	cfg.Logger = logger
	cfg.SuperChip = superChip
	cfg.Trace = opts.Trace
	cfg.ReduceFlicker = opts.ReduceFlicker
	cfg.Debug = opts.Debug
	if opts.ClockHz > 0 {
		cfg.ClockHz = uint32(opts.ClockHz)
	}
	return cfg
}

// ParseBreakpoints parses a comma separated list of addresses. Addresses can be
// given in decimal, or in hex with a 0x or $ prefix.
func ParseBreakpoints(s string) ([]uint16, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var addresses []uint16
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		value := field
		base := 0
		if strings.HasPrefix(value, "$") {
			value = value[1:]
			base = 16
		}
		address, err := strconv.ParseUint(value, base, 16)
		if err != nil {
			return nil, fmt.Errorf("parsing breakpoint address '%s': %w", field, err)
		}
		if address >= chip8.MemorySize {
			return nil, fmt.Errorf("breakpoint address '%s' exceeds memory size", field)
		}
		addresses = append(addresses, uint16(address))
	}
	return addresses, nil
}
