package screenshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"golang.org/x/image/bmp"
)

func testFramebuffer() *chip8.Framebuffer {
	var fb chip8.Framebuffer
	fb[0][0] = chip8.PixelOn
	fb[31][63] = chip8.PixelTrace
	return &fb
}

func TestImage(t *testing.T) {
	img := Image(testFramebuffer(), 2)

	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
	assert.Equal(t, uint8(chip8.PixelOn), img.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(chip8.PixelOff), img.GrayAt(2, 0).Y)
	assert.Equal(t, uint8(chip8.PixelTrace), img.GrayAt(127, 63).Y)
	assert.Equal(t, uint8(chip8.PixelTrace), img.GrayAt(126, 62).Y)
	assert.Equal(t, uint8(chip8.PixelOff), img.GrayAt(125, 63).Y)
}

func TestImage_MinimumScale(t *testing.T) {
	img := Image(testFramebuffer(), 0)
	assert.Equal(t, chip8.DisplayWidth, img.Bounds().Dx())
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, testFramebuffer(), 1))

	decoded, err := bmp.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, chip8.DisplayWidth, decoded.Bounds().Dx())
	assert.Equal(t, chip8.DisplayHeight, decoded.Bounds().Dy())

	r, _, _, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.bmp")
	assert.NoError(t, WriteFile(path, testFramebuffer(), DefaultScale))

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 0)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "screen.bmp"), testFramebuffer(), 1)
	assert.ErrorContains(t, err, "creating screenshot file")
}
