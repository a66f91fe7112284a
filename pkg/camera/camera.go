package camera

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Config holds the user-facing camera options
type Config struct {
	Center         core.Vec3 // Camera position
	LookAt         core.Vec3 // Point the camera looks at
	Up             core.Vec3 // Up direction
	ImageHeight    int       // Image height in pixels; width follows from AspectRatio
	ViewportHeight float64   // Viewport height at unit distance before the FOV scale
	AspectRatio    float64   // Width / height
	VFov           float64   // Vertical field of view in degrees
	FocusDistance  float64   // Distance to the plane of perfect focus
	DefocusAngle   float64   // Lens cone angle in degrees; 0 means a pinhole
}

// DefaultConfig returns the camera used when a scene sets nothing
func DefaultConfig() Config {
	return Config{
		Center:         core.NewVec3(0, 0, 0),
		LookAt:         core.NewVec3(0, 0, -1),
		Up:             core.NewVec3(0, 1, 0),
		ImageHeight:    720,
		ViewportHeight: 2.0,
		AspectRatio:    16.0 / 9.0,
		VFov:           90.0,
		FocusDistance:  1.0,
	}
}

// MergeConfig returns base with every non-zero field of override applied
func MergeConfig(base, override Config) Config {
	result := base
	zero := core.Vec3{}
	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.ImageHeight != 0 {
		result.ImageHeight = override.ImageHeight
	}
	if override.ViewportHeight != 0 {
		result.ViewportHeight = override.ViewportHeight
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	return result
}

// Camera generates primary rays. All derived vectors are resolved at construction.
type Camera struct {
	config Config

	width, height  int
	viewportWidth  float64
	viewportHeight float64

	forward      core.Vec3 // Unit view direction
	upperLeft    core.Vec3 // World position of the image's upper-left corner
	deltaU       core.Vec3 // Step between horizontally adjacent pixels
	deltaV       core.Vec3 // Step between vertically adjacent pixels (points up)
	defocusDiskU core.Vec3
	defocusDiskV core.Vec3
}

// NewCamera creates a camera from config
func NewCamera(config Config) *Camera {
	c := &Camera{config: config}

	c.viewportHeight = config.ViewportHeight * math.Tan(degreesToRadians(config.VFov)/2) * config.FocusDistance
	c.viewportWidth = config.AspectRatio * c.viewportHeight
	c.height = config.ImageHeight
	c.width = int(float64(config.ImageHeight)*config.AspectRatio + 1e-6)
	if c.width < 1 {
		c.width = 1
	}

	c.orient(config.Center, config.LookAt, config.Up)
	return c
}

// orient derives the view basis and image plane from position and target
func (c *Camera) orient(center, lookAt, up core.Vec3) {
	c.config.Center = center
	c.config.LookAt = lookAt
	c.config.Up = up
	c.forward = lookAt.Subtract(center).Normalize()

	w := c.forward.Negate()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(c.viewportWidth)
	viewportV := v.Multiply(c.viewportHeight)

	c.upperLeft = center.
		Subtract(viewportU.Multiply(0.5)).
		Add(viewportV.Multiply(0.5)).
		Subtract(w.Multiply(c.config.FocusDistance))
	c.deltaU = viewportU.Multiply(1.0 / float64(c.width))
	c.deltaV = viewportV.Multiply(1.0 / float64(c.height))

	defocusRadius := c.config.FocusDistance * math.Tan(degreesToRadians(c.config.DefocusAngle/2))
	c.defocusDiskU = u.Multiply(defocusRadius)
	c.defocusDiskV = v.Multiply(defocusRadius)
}

// Change moves and re-aims the camera, keeping the lens and image settings
func (c *Camera) Change(center, lookAt, up core.Vec3) {
	c.orient(center, lookAt, up)
}

// GetRay returns a ray through continuous pixel coordinates (u, v), where
// (0,0) is the upper-left corner and v grows downward. The ray carries a
// random time in [0,1) and starts on the lens disk when defocus is enabled.
func (c *Camera) GetRay(u, v float64, sampler core.Sampler) core.Ray {
	origin := c.config.Center
	if c.config.DefocusAngle > 0 {
		p := core.RandomInUnitDisk(sampler)
		origin = origin.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
	}

	target := c.upperLeft.Add(c.deltaU.Multiply(u)).Subtract(c.deltaV.Multiply(v))
	return core.NewRayAt(origin, target.Subtract(origin).Normalize(), sampler.Get1D())
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 { return c.forward }

// Config returns the options the camera currently reflects
func (c *Camera) Config() Config { return c.config }

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
