// Package host drives a CHIP-8 machine from a host frame loop.
package host

import (
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// DefaultTickRate is the number of machine steps per second. A step executes at
// most one instruction, so the rate caps the effective instruction clock.
const DefaultTickRate = 2000

// Machine is the machine interface used by the runners.
type Machine interface {
	Step(elapsed time.Duration) (chip8.StepResult, error)
	Framebuffer() chip8.Framebuffer
	Decay(amount uint8)
	ConsumeReset() bool
	ClockHz() uint32
	PC() uint16
	Paused() bool
	Pause()
	Run()
	KeyDown(key uint8) error
	KeyUp(key uint8) error
}

// Config contains the frame loop settings.
type Config struct {
	FrameDuration time.Duration // duration of a single host frame
	TickRate      uint32        // machine steps per second
	Fade          uint8         // intensity removed from dimmed pixels per frame
	Frames        uint          // number of frames to run, 0 runs until cancelled
}

// FrameResult is the combined outcome of all steps of a single frame.
type FrameResult struct {
	Drew  bool
	Beep  bool
	Break bool
}

// tickDuration returns the step duration, the machine clock is never throttled
// by a tick rate below it.
func tickDuration(cfg Config, clockHz uint32) time.Duration {
	rate := max(cfg.TickRate, clockHz)
	if rate == 0 {
		rate = DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}

// runFrame advances the machine by one host frame in steps of tick. A paused
// machine is not advanced.
func runFrame(m Machine, frame, tick time.Duration) (FrameResult, error) {
	var result FrameResult
	if m.Paused() {
		return result, nil
	}

	for elapsed := time.Duration(0); elapsed < frame; elapsed += tick {
		step, err := m.Step(min(tick, frame-elapsed))
		if err != nil {
			return result, err
		}
		result.Drew = result.Drew || step.Drew
		result.Beep = step.Beep
		if step.Break {
			result.Break = true
			break
		}
	}
	return result, nil
}
