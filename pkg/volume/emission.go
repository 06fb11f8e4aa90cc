package volume

import "github.com/yafaray-go/yafaray/pkg/core"

// Integrator is the contract a volume integrator exposes to the surface
// core: transmittance along a ray segment, and emitted plus in-scattered
// radiance along that same segment.
type Integrator interface {
	Transmittance(ray core.Ray, rng core.Sampler) core.Vec3
	// Integrate returns the radiance contributed by the medium and the
	// alpha to composite it with (1 once the ray has entered the region).
	Integrate(ray core.Ray, rng core.Sampler) (radiance core.Vec3, alpha float64)
}

// EmissionIntegrator accumulates only the medium's own emission, attenuated
// by the transmittance accrued so far; no light is gathered from the
// scene. Grounded on integrator_emission.h (no .cc was retrieved for this
// integrator; the step-marching shape below follows SingleScatterIntegrator
// with the inscatter term dropped, per the header's "emission part" comment).
type EmissionIntegrator struct {
	Region   Region
	StepSize float64
}

func NewEmissionIntegrator(region Region, stepSize float64) *EmissionIntegrator {
	if stepSize <= 0 {
		stepSize = 1
	}
	return &EmissionIntegrator{Region: region, StepSize: stepSize}
}

func (e *EmissionIntegrator) Transmittance(ray core.Ray, rng core.Sampler) core.Vec3 {
	_, _, crossed := e.Region.CrossBound(ray)
	if !crossed {
		return core.NewVec3(1, 1, 1)
	}
	offset := 0.0
	if rng != nil {
		offset = rng.Get1D()
	}
	tau := e.Region.Tau(ray, e.StepSize, offset)
	return expColor(tau)
}

func (e *EmissionIntegrator) Integrate(ray core.Ray, rng core.Sampler) (core.Vec3, float64) {
	enter, leave, crossed := e.Region.CrossBound(ray)
	if !crossed {
		return core.Vec3{}, 0
	}
	dist := leave - enter
	if dist < 1e-3 {
		return core.Vec3{}, 0
	}
	offset := 0.0
	if rng != nil {
		offset = rng.Get1D()
	}
	pos := enter - offset*e.StepSize
	accumTau := core.Vec3{}
	result := core.Vec3{}
	for pos < leave {
		p := ray.At(pos)
		sigT := sigmaT(e.Region, p, ray.Direction)
		tr := expColor(accumTau)
		le := e.Region.Emission(p, ray.Direction)
		result = result.Add(tr.MultiplyVec(le).Multiply(e.StepSize))
		accumTau = accumTau.Add(sigT.Multiply(e.StepSize))
		pos += e.StepSize
	}
	return result, 1
}
