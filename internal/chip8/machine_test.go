package chip8

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestMachine returns a running-ready machine with a deterministic random source.
func newTestMachine(t *testing.T, configure ...func(*Config)) *Machine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Logger = log.NewTestLogger(t)
	cfg.Random = RandomFunc(func() byte { return 0xFF })
	for _, fn := range configure {
		fn(&cfg)
	}

	m, err := New(cfg)
	assert.NoError(t, err)
	return m
}

func legacyMode(cfg *Config) {
	cfg.SuperChip = false
}

func TestNew(t *testing.T) {
	m := newTestMachine(t)

	assert.True(t, m.Paused())
	assert.Equal(t, Paused, m.State())
	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, 0, m.SP())
	assert.Equal(t, uint32(DefaultClockHz), m.ClockHz())
	assert.True(t, m.SuperChip())
	assert.False(t, m.Trace())
	assert.False(t, m.ReduceFlicker())
	assert.False(t, m.Debug())
	assert.True(t, m.ConsumeReset())
	assert.False(t, m.ConsumeReset())

	ram := m.RAM()
	assert.Equal(t, font, [len(font)]byte(ram[FontStart:FontEnd]))
}

func TestNew_InvalidClock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClockHz = 0

	m, err := New(cfg)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, ErrInvalidClock))
}

func TestInsertCartridge(t *testing.T) {
	m := newTestMachine(t)
	m.ConsumeReset()
	m.Run()
	m.v[3] = 7

	rom := []byte{0x00, 0xE0, 0x12, 0x00}
	assert.NoError(t, m.InsertCartridge(rom))

	assert.True(t, m.Paused())
	assert.True(t, m.ConsumeReset())
	assert.Equal(t, len(rom), m.ROMSize())
	assert.Equal(t, uint8(0), m.Registers()[3])

	ram := m.RAM()
	assert.True(t, bytes.Equal(rom, ram[ProgramStart:ProgramStart+len(rom)]))
	assert.Equal(t, font, [len(font)]byte(ram[FontStart:FontEnd]))
}

func TestInsertCartridge_TooLarge(t *testing.T) {
	m := newTestMachine(t)

	err := m.InsertCartridge(make([]byte, MaxROMSize+1))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
	assert.Equal(t, 0, m.ROMSize())

	assert.NoError(t, m.InsertCartridge(make([]byte, MaxROMSize)))
	assert.Equal(t, MaxROMSize, m.ROMSize())
}

func TestReset_KeepsConfiguration(t *testing.T) {
	m := newTestMachine(t, legacyMode)
	assert.NoError(t, m.ChangeClock(1000))
	m.SetTrace(true)
	m.SetReduceFlicker(true)
	m.SetDebug(true)
	m.AddBreakpoint(0x204)
	m.sound = 9
	m.display[0][0] = PixelOn

	m.Reset()

	assert.Equal(t, uint32(1000), m.ClockHz())
	assert.False(t, m.SuperChip())
	assert.True(t, m.Trace())
	assert.True(t, m.ReduceFlicker())
	assert.True(t, m.Debug())
	assert.True(t, m.HasBreakpoint(0x204))
	assert.Equal(t, uint8(0), m.SoundTimer())
	fb := m.Framebuffer()
	assert.Equal(t, uint8(PixelOff), fb.Pixel(0, 0))
}

func TestSnapshot(t *testing.T) {
	m := newTestMachine(t)
	assert.NoError(t, m.InsertCartridge([]byte{0x60, 0x2A}))
	_, err := m.Step(0)
	assert.NoError(t, err)

	snap := m.Snapshot()
	assert.Equal(t, uint16(0x202), snap.PC)
	assert.Equal(t, uint8(0x2A), snap.Registers[0])
	assert.Equal(t, 2, snap.ROMSize)
	assert.Equal(t, Paused, snap.State)
	assert.Equal(t, byte(0x60), snap.Memory[ProgramStart])

	// the snapshot is a copy
	snap.Registers[0] = 0
	assert.Equal(t, uint8(0x2A), m.Registers()[0])
}

func TestKeys(t *testing.T) {
	m := newTestMachine(t)

	assert.NoError(t, m.KeyDown(0xA))
	assert.Equal(t, Pressed, m.Keys()[0xA])
	assert.NoError(t, m.KeyUp(0xA))
	assert.Equal(t, JustReleased, m.Keys()[0xA])
	assert.NoError(t, m.SetKey(0xA, Released))
	assert.Equal(t, Released, m.Keys()[0xA])

	err := m.KeyDown(KeyCount)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "just released", JustReleased.String())
	assert.Equal(t, "stack overflow", FaultStackOverflow.String())
}
