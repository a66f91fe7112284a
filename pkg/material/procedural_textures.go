package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Checker alternates between two sources on a 3D lattice of cubes
type Checker struct {
	InvScale  float64
	Even, Odd ColorSource
}

// NewChecker creates a spatial checker pattern with cubes of the given edge length
func NewChecker(scale float64, even, odd ColorSource) *Checker {
	return &Checker{InvScale: 1.0 / scale, Even: even, Odd: odd}
}

// NewSolidChecker creates a checker pattern from two flat colors
func NewSolidChecker(scale float64, even, odd core.Vec3) *Checker {
	return NewChecker(scale, NewSolidColor(even), NewSolidColor(odd))
}

// Evaluate picks Even or Odd by the parity of the lattice cell containing point
func (c *Checker) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	x := int(math.Floor(c.InvScale * point.X))
	y := int(math.Floor(c.InvScale * point.Y))
	z := int(math.Floor(c.InvScale * point.Z))

	if (x+y+z)%2 == 0 {
		return c.Even.Evaluate(uv, point)
	}
	return c.Odd.Evaluate(uv, point)
}

const perlinPointCount = 256

// Perlin is a gradient noise generator with fixed permutation tables
type Perlin struct {
	gradients [perlinPointCount]core.Vec3
	permX     [perlinPointCount]int
	permY     [perlinPointCount]int
	permZ     [perlinPointCount]int
}

// NewPerlin builds the gradient and permutation tables from random
func NewPerlin(random *rand.Rand) *Perlin {
	p := &Perlin{}
	sampler := core.NewRandomSampler(random)
	for i := range p.gradients {
		p.gradients[i] = core.RandomInRange(sampler, -1, 1).Normalize()
	}
	for _, perm := range []*[perlinPointCount]int{&p.permX, &p.permY, &p.permZ} {
		for i := range perm {
			perm[i] = i
		}
		random.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	}
	return p
}

// Noise returns smoothed gradient noise at point, roughly in [-1, 1]
func (p *Perlin) Noise(point core.Vec3) float64 {
	fx, fy, fz := math.Floor(point.X), math.Floor(point.Y), math.Floor(point.Z)
	u, v, w := point.X-fx, point.Y-fy, point.Z-fz
	i, j, k := int(fx), int(fy), int(fz)

	var c [2][2][2]core.Vec3
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				index := p.permX[(i+di)&255] ^ p.permY[(j+dj)&255] ^ p.permZ[(k+dk)&255]
				c[di][dj][dk] = p.gradients[index]
			}
		}
	}

	return perlinInterpolate(c, u, v, w)
}

// perlinInterpolate blends the corner gradients with a Hermite cubic
func perlinInterpolate(c [2][2][2]core.Vec3, u, v, w float64) float64 {
	uu := u * u * (3 - 2*u)
	vv := v * v * (3 - 2*v)
	ww := w * w * (3 - 2*w)

	accum := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				fi, fj, fk := float64(i), float64(j), float64(k)
				weight := core.NewVec3(u-fi, v-fj, w-fk)
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					c[i][j][k].Dot(weight)
			}
		}
	}
	return accum
}

// Turbulence sums depth octaves of noise with halving weights
func (p *Perlin) Turbulence(point core.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * p.Noise(point)
		weight *= 0.5
		point = point.Multiply(2)
	}
	return math.Abs(accum)
}

// NoiseTexture is a marble-like pattern driven by Perlin turbulence
type NoiseTexture struct {
	Noise *Perlin
	Scale float64
}

// NewNoiseTexture creates a marble texture; random seeds the noise tables
func NewNoiseTexture(scale float64, random *rand.Rand) *NoiseTexture {
	return &NoiseTexture{Noise: NewPerlin(random), Scale: scale}
}

// Evaluate returns a grey level of 0.5·(1 + sin(scale·z + 10·turbulence))
func (n *NoiseTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	grey := 0.5 * (1 + math.Sin(n.Scale*point.Z+10*n.Noise.Turbulence(point, 7)))
	return core.Splat(grey)
}
