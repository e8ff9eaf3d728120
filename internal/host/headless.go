package host

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Stats contains counters of a finished run.
type Stats struct {
	Frames     uint
	DrawFrames uint
	BeepFrames uint
	Break      bool // the run stopped on a breakpoint
}

// Headless runs a machine for a fixed number of frames without any output and
// without waiting for wall-clock time.
type Headless struct {
	logger  *log.Logger
	machine Machine
	cfg     Config
}

// NewHeadless returns a new headless runner.
func NewHeadless(logger *log.Logger, machine Machine, cfg Config) *Headless {
	return &Headless{
		logger:  logger,
		machine: machine,
		cfg:     cfg,
	}
}

// Run starts the machine and runs the configured number of frames. It stops early
// on a fault, a breakpoint or when the context is cancelled.
func (h *Headless) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	tick := tickDuration(h.cfg, h.machine.ClockHz())
	h.machine.Run()

	for h.cfg.Frames == 0 || stats.Frames < h.cfg.Frames {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("running frame %d: %w", stats.Frames, err)
		}

		result, err := runFrame(h.machine, h.cfg.FrameDuration, tick)
		if err != nil {
			return stats, fmt.Errorf("running frame %d: %w", stats.Frames, err)
		}
		h.machine.Decay(h.cfg.Fade)

		stats.Frames++
		if result.Drew {
			stats.DrawFrames++
		}
		if result.Beep {
			stats.BeepFrames++
		}
		if result.Break {
			stats.Break = true
			h.logger.Info("Breakpoint reached", log.Hex("pc", h.machine.PC()))
			break
		}
	}

	h.logger.Debug("Headless run finished",
		log.Int("frames", int(stats.Frames)),
		log.Int("draw_frames", int(stats.DrawFrames)),
		log.Int("beep_frames", int(stats.BeepFrames)))
	return stats, nil
}
