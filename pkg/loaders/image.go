package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	// Extra texture formats
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ImageData contains a decoded raster as float RGB texels in [0,1]
type ImageData struct {
	Width  int
	Height int
	Pixels []f32.Vec3 // Row-major from the top-left corner
}

// LoadImage loads a PNG, JPEG, BMP, TIFF or WebP image from a local path or URL
func LoadImage(location string) (*ImageData, error) {
	res, err := OpenResource(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer res.Close()

	return ReadImage(res)
}

// ReadImage decodes an image resource, auto-detecting the format from its header
func ReadImage(res *Resource) (*ImageData, error) {
	img, format, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", res.Path(), err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]f32.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = f32.Vec3{
				float32(r) / 65535.0,
				float32(g) / 65535.0,
				float32(b) / 65535.0,
			}
		}
	}

	logger.Infof("decoded %s image %q (%dx%d)", format, res.Path(), width, height)
	return &ImageData{Width: width, Height: height, Pixels: pixels}, nil
}

// At returns the texel at (x, y) as a color
func (d *ImageData) At(x, y int) core.Vec3 {
	p := d.Pixels[y*d.Width+x]
	return core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2]))
}

// Linearize converts sRGB-encoded texels to linear radiance in place
func (d *ImageData) Linearize() *ImageData {
	for i := range d.Pixels {
		for c := 0; c < 3; c++ {
			d.Pixels[i][c] = srgbToLinear(d.Pixels[i][c])
		}
	}
	return d
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}

// Texture packs the texels into a nearest-neighbour image texture
func (d *ImageData) Texture() *material.ImageTexture {
	packed := make([]float32, 0, 3*len(d.Pixels))
	for _, p := range d.Pixels {
		packed = append(packed, p[0], p[1], p[2])
	}
	return material.NewImageTexture(d.Width, d.Height, packed)
}
