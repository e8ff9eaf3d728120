// Package detector handles compatibility mode detection.
package detector

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

var knownExtensions = []string{".ch8", ".sc8", ".c8x"}

// Detector decides between SUPER-CHIP and original CHIP-8 instruction quirks.
type Detector struct {
	logger *log.Logger
}

// New creates a new compatibility mode detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns whether SUPER-CHIP quirks should be used. It first checks if a mode
// is explicitly specified in options, otherwise the mode is detected from the input
// filename extension.
func (d *Detector) Detect(opts options.Program) bool {
	switch opts.Mode {
	case options.ModeSuperChip:
		return true
	case options.ModeChip8:
		return false
	}

	superChip := d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected compatibility mode",
		log.String("mode", modeName(superChip)),
		log.String("file", opts.Input))
	return superChip
}

// detectFromFile determines the compatibility mode based on file extension.
// Legacy CHIP-8 ROMs share the .ch8 extension with SUPER-CHIP ones, so only an
// explicit mode selects the legacy quirks.
func (d *Detector) detectFromFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(knownExtensions, ext) {
		d.logger.Debug("Unknown ROM file extension", log.String("extension", ext))
	}
	return chip8.DefaultConfig().SuperChip
}

func modeName(superChip bool) string {
	if superChip {
		return options.ModeSuperChip
	}
	return options.ModeChip8
}
