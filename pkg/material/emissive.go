package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight represents a light-emitting material
type DiffuseLight struct {
	Emission ColorSource // Emitted radiance
}

// NewDiffuseLight creates a new emitter with a constant radiance
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// Scatter always absorbs: lights terminate the path
func (e *DiffuseLight) Scatter(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the emission on the front face only
func (e *DiffuseLight) Emitted(hit *HitRecord) core.Vec3 {
	if !hit.FrontFace {
		return core.Vec3{}
	}
	return e.Emission.Evaluate(hit.UV, hit.Point)
}

// ScatteringPDF is zero: emitters have no scattering lobe
func (e *DiffuseLight) ScatteringPDF(hit *HitRecord, scattered core.Ray) float64 {
	return 0
}
