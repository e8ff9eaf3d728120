package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x00, 0xE0, 0x12, 0x00})

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, data, 4)
		assert.Equal(t, byte(0x12), data[2])
	})

	t.Run("load maximum size", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, chip8.MaxROMSize))

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, data, chip8.MaxROMSize)
	})

	t.Run("error on oversized file", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, chip8.MaxROMSize+1))

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, chip8.ErrROMTooLarge))
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		_, err := New().Load(tmpFile)
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.ch8")
		assert.Error(t, err)
		assert.ErrorContains(t, err, "opening file")
	})
}

func TestRead(t *testing.T) {
	data, err := New().Read(bytes.NewReader([]byte{0xA2, 0x1E}))
	assert.NoError(t, err)
	assert.Len(t, data, 2)
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
