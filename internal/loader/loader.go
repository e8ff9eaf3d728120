// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file and validates that it fits into the program space.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.Read(file)
}

// Read reads ROM data from a reader and validates that it fits into the program space.
func (l *Loader) Read(reader io.Reader) ([]byte, error) {
	// read one byte more than allowed to detect oversized ROMs without reading everything
	data, err := io.ReadAll(io.LimitReader(reader, chip8.MaxROMSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyROM
	}
	if len(data) > chip8.MaxROMSize {
		return nil, fmt.Errorf("%w: more than %d bytes", chip8.ErrROMTooLarge, chip8.MaxROMSize)
	}
	return data, nil
}
