// Package screenshot writes the CHIP-8 framebuffer as an image.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DefaultScale is the number of image pixels per display cell side.
const DefaultScale = 10

// Image converts the framebuffer to a grayscale image, each cell becomes a
// scale x scale square with the cell intensity.
func Image(fb *chip8.Framebuffer, scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}

	src := image.NewGray(image.Rect(0, 0, chip8.DisplayWidth, chip8.DisplayHeight))
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			src.SetGray(x, y, color.Gray{Y: fb.Pixel(x, y)})
		}
	}
	if scale == 1 {
		return src
	}

	dst := image.NewGray(image.Rect(0, 0, chip8.DisplayWidth*scale, chip8.DisplayHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Write encodes the framebuffer as a BMP image.
func Write(w io.Writer, fb *chip8.Framebuffer, scale int) error {
	if err := bmp.Encode(w, Image(fb, scale)); err != nil {
		return fmt.Errorf("encoding bmp: %w", err)
	}
	return nil
}

// WriteFile writes the framebuffer as a BMP image file.
func WriteFile(path string, fb *chip8.Framebuffer, scale int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating screenshot file %s: %w", path, err)
	}

	if err := Write(file, fb, scale); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing screenshot file %s: %w", path, err)
	}
	return nil
}
