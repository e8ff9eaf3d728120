package detector

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name          string
		mode          string
		inputFile     string
		wantSuperChip bool
	}{
		{
			name:          "explicit SUPER-CHIP mode",
			mode:          options.ModeSuperChip,
			inputFile:     "game.ch8",
			wantSuperChip: true,
		},
		{
			name:          "explicit CHIP-8 mode",
			mode:          options.ModeChip8,
			inputFile:     "game.sc8",
			wantSuperChip: false,
		},
		{
			name:          "detect from .ch8 extension",
			mode:          options.ModeAuto,
			inputFile:     "game.ch8",
			wantSuperChip: true,
		},
		{
			name:          "detect from .sc8 extension",
			mode:          options.ModeAuto,
			inputFile:     "game.SC8",
			wantSuperChip: true,
		},
		{
			name:          "unknown extension defaults to SUPER-CHIP",
			mode:          options.ModeAuto,
			inputFile:     "game.rom",
			wantSuperChip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Program{
				Parameters: options.Parameters{Input: tt.inputFile},
				Flags:      options.Flags{Mode: tt.mode},
			}
			assert.Equal(t, tt.wantSuperChip, d.Detect(opts))
		})
	}
}
