package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("renderer")

var (
	// ErrNoCamera is returned when the scene has no camera to generate rays
	ErrNoCamera = errors.New("scene has no camera")

	// ErrInvalidDimensions is returned for images without pixels
	ErrInvalidDimensions = errors.New("image dimensions must be positive")
)

// Options configures a Renderer
type Options struct {
	Workers  int          // Concurrent rows; zero means one per CPU
	Seed     int64        // Base seed for the per-row samplers
	Progress ProgressFunc // Optional, called from worker goroutines
}

// Renderer turns a scene into an 8-bit image
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	pool       *WorkerPool
	seed       int64
}

// New prepares the scene for rendering and validates its camera
func New(s *scene.Scene, opts Options) (*Renderer, error) {
	if s.Camera == nil {
		return nil, ErrNoCamera
	}
	if s.Camera.Width() <= 0 || s.Camera.Height() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, s.Camera.Width(), s.Camera.Height())
	}
	if err := s.Preprocess(); err != nil {
		return nil, err
	}

	return &Renderer{
		scene:      s,
		integrator: integrator.NewPathTracer(s.SamplingConfig),
		pool:       NewWorkerPool(opts.Workers, opts.Progress),
		seed:       opts.Seed,
	}, nil
}

// StrataPerAxis returns ⌈√samples⌉, the side of the stratified sample grid
func StrataPerAxis(samples int) int {
	if samples <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(samples))))
}

// Render traces every pixel and returns the tone mapped image. Rows are scheduled
// in parallel and every pixel draws from its own seeded sequence, so the result
// depends only on the seed. Cancelling ctx abandons the remaining rows and
// returns ctx's error.
func (r *Renderer) Render(ctx context.Context) (*Image, RenderStats, error) {
	cam := r.scene.Camera
	width, height := cam.Width(), cam.Height()
	samples := r.scene.SamplingConfig.SamplesPerPixel
	strata := StrataPerAxis(samples)

	stats := RenderStats{
		Width:            width,
		Height:           height,
		RequestedSamples: samples,
		RealizedSamples:  strata * strata,
		MaxDepth:         r.scene.SamplingConfig.MaxDepth,
		Workers:          r.pool.NumWorkers(),
		PrimaryRays:      int64(width) * int64(height) * int64(strata*strata),
	}

	logger.Infof("rendering %dx%d, %d samples per pixel (%d traced), %d workers, %d primitives",
		width, height, samples, stats.RealizedSamples, stats.Workers, r.scene.PrimitiveCount())

	img := NewImage(width, height)
	start := time.Now()
	err := r.pool.Run(ctx, height, func(ctx context.Context, y int) error {
		sampler := core.NewSeededSampler(0)
		for x := 0; x < width; x++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			sampler.Reseed(pixelSeed(r.seed, y*width+x))
			color := r.samplePixel(x, y, samples, strata, sampler)
			i := 3 * (y*width + x)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = toneMap(color)
		}
		return nil
	})
	stats.Duration = time.Since(start)
	if err != nil {
		return nil, stats, err
	}

	logger.Infof("finished in %s", stats.Duration.Round(time.Millisecond))
	return img, stats, nil
}

// samplePixel traces a strata×strata jittered grid inside pixel (x, y) and
// divides the sum by the requested sample count
func (r *Renderer) samplePixel(x, y, samples, strata int, sampler core.Sampler) core.Vec3 {
	if samples <= 0 {
		return core.Vec3{}
	}
	cell := 1.0 / float64(strata)
	sum := core.Vec3{}
	for sy := 0; sy < strata; sy++ {
		for sx := 0; sx < strata; sx++ {
			u := float64(x) + (float64(sx)+sampler.Get1D())*cell
			v := float64(y) + (float64(sy)+sampler.Get1D())*cell
			ray := r.scene.Camera.GetRay(u, v, sampler)
			sum = sum.Add(r.integrator.RayColor(ray, r.scene, sampler).Sanitize())
		}
	}
	return sum.Multiply(1.0 / float64(samples))
}

// pixelSeed derives an independent seed for each pixel
func pixelSeed(seed int64, pixel int) int64 {
	return seed*1_000_003 + int64(pixel)*7_919 + 1
}

// toneMap applies gamma 2 and quantizes each channel to [0, 255]
func toneMap(c core.Vec3) (r, g, b byte) {
	c = c.Clamp(0, math.MaxFloat64).Sqrt().Clamp(0, 1)
	return byte(c.X * 255), byte(c.Y * 255), byte(c.Z * 255)
}
