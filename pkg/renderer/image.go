package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// Image is a packed 8-bit RGB raster, row-major from the top-left pixel
type Image struct {
	Width  int
	Height int
	Pix    []byte // len = Width*Height*3
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]byte, width*height*3)}
}

// RGB returns the bytes of pixel (x, y)
func (img *Image) RGB(x, y int) (r, g, b byte) {
	i := 3 * (y*img.Width + x)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// ToRGBA converts the buffer to an opaque image.RGBA
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.RGB(x, y)
			rgba.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return rgba
}

// WritePNG encodes the image as PNG
func (img *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, img.ToRGBA())
}

// SavePNG writes the image to path, creating parent directories as needed
func (img *Image) SavePNG(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := img.WritePNG(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
