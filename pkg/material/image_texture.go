package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []float32 // Packed RGB, row-major from the top: Pixels[3*(y*Width+x)+c]
}

// NewImageTexture creates a new image texture from packed RGB texels
func NewImageTexture(width, height int, pixels []float32) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture with nearest-neighbour lookup.
// UV wraps toroidally; v = 0 is the top row.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.NewVec3(0, 1, 1) // Cyan marks a missing image
	}

	x := wrapIndex(int(uv.X*float64(t.Width)), t.Width)
	y := wrapIndex(int(uv.Y*float64(t.Height)), t.Height)

	i := 3 * (y*t.Width + x)
	return core.NewVec3(float64(t.Pixels[i]), float64(t.Pixels[i+1]), float64(t.Pixels[i+2]))
}

// wrapIndex reduces i into [0, n)
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
