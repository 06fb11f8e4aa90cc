// Package lights implements the Light contract the direct-lighting
// estimator and the photon prepass both sample from: point lights and
// area (quad) lights for direct illumination, with emission sampling for
// photon shooting.
package lights

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/geometry"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// Sample is the result of sampling a light for direct illumination from
// a shading point: a direction and distance to the light plus the
// incident radiance along it (with inverse-square falloff for a point
// light). Emission is not divided by PDF; callers divide by it.
type Sample struct {
	Point     core.Vec3
	Normal    core.Vec3
	Direction core.Vec3
	Distance  float64
	Emission  core.Vec3
	PDF       float64 // solid-angle pdf; 0 means no contribution
}

// EmissionSample is the result of sampling a light's surface for photon
// emission: a point, an outgoing direction, its radiance, and the
// combined area*direction pdf.
type EmissionSample struct {
	Point     core.Vec3
	Normal    core.Vec3
	Direction core.Vec3
	Radiance  core.Vec3
	PDF       float64
}

// Light is implemented by every light source the integrators can sample,
// whether a delta point light or finite-area emissive geometry.
type Light interface {
	// Sample draws a direction from point towards the light for direct
	// lighting, returning its solid-angle pdf.
	Sample(point core.Vec3, sampler core.Sampler) Sample
	// PDF returns the solid-angle density Sample would assign to
	// direction from point, used for MIS against BSDF sampling.
	PDF(point core.Vec3, direction core.Vec3) float64
	// SampleEmission draws a point and outgoing direction from the
	// light's own surface, for photon shooting.
	SampleEmission(sampler core.Sampler) EmissionSample
	// EmissionPDF returns the area*direction pdf SampleEmission would
	// assign to (point, direction).
	EmissionPDF(point core.Vec3, direction core.Vec3) float64
	// Intersect tests whether a ray cast from point along direction (as a
	// BSDF-sampled continuation would be) actually reaches this light's
	// surface, returning the emitted radiance and the same solid-angle
	// pdf PDF would compute for that direction, for the BSDF-sampling
	// half of MIS. Delta lights have zero area and are never hit, so ok
	// is always false for them.
	Intersect(point, direction core.Vec3) (emission core.Vec3, distance, pdf float64, ok bool)
	// IsDelta reports whether the light occupies zero area (point/
	// directional lights cannot be hit by a ray and contribute no BSDF-
	// sampled MIS weight).
	IsDelta() bool
	// Power returns the total radiant power, used to build the
	// light-selection probability distribution.
	Power() float64
}

// PointLight is a delta light: all power radiates isotropically from a
// single point, and can only ever be found by explicit light sampling.
type PointLight struct {
	Pos      core.Vec3
	Emission core.Vec3
}

func NewPointLight(pos, emission core.Vec3) *PointLight {
	return &PointLight{Pos: pos, Emission: emission}
}

func (p *PointLight) Sample(point core.Vec3, sampler core.Sampler) Sample {
	toLight := p.Pos.Subtract(point)
	dist := toLight.Length()
	if dist < 1e-8 {
		return Sample{}
	}
	dir := toLight.Multiply(1 / dist)
	return Sample{
		Point:     p.Pos,
		Direction: dir,
		Distance:  dist,
		Emission:  p.Emission.Multiply(1 / (dist * dist)),
		PDF:       1,
	}
}

func (p *PointLight) PDF(point, direction core.Vec3) float64 { return 0 }

func (p *PointLight) SampleEmission(sampler core.Sampler) EmissionSample {
	u, v := sampler.Get2D()
	dir := uniformSphereDirection(u, v)
	return EmissionSample{Point: p.Pos, Normal: dir, Direction: dir, Radiance: p.Emission, PDF: 1 / (4 * math.Pi)}
}

func (p *PointLight) EmissionPDF(point, direction core.Vec3) float64 { return 0 }

func (p *PointLight) Intersect(point, direction core.Vec3) (core.Vec3, float64, float64, bool) {
	return core.Vec3{}, 0, 0, false
}

func (p *PointLight) IsDelta() bool { return true }
func (p *PointLight) Power() float64                                 { return p.Emission.Luminance() * 4 * math.Pi }

// QuadLight is a finite-area emitter backed by a Quad shape, two-sided
// only insofar as the quad's material emits along its geometric normal.
type QuadLight struct {
	Quad *geometry.Quad
}

func NewQuadLight(quad *geometry.Quad) *QuadLight {
	return &QuadLight{Quad: quad}
}

func (q *QuadLight) Sample(point core.Vec3, sampler core.Sampler) Sample {
	u, v := sampler.Get2D()
	samplePoint := q.Quad.SamplePoint(u, v)

	toLight := samplePoint.Subtract(point)
	dist := toLight.Length()
	dir := toLight.Multiply(1 / dist)

	cosTheta := math.Abs(q.Quad.Normal.Dot(dir.Negate()))
	if cosTheta < 1e-8 {
		return Sample{}
	}

	areaPDF := 1 / q.Quad.Area()
	solidAnglePDF := areaPDF * dist * dist / cosTheta

	var emission core.Vec3
	if emitter, ok := q.Quad.Material.(material.Emitter); ok {
		emission = emitter.Emit(core.NewRay(point, dir))
	}

	return Sample{
		Point:     samplePoint,
		Normal:    q.Quad.Normal,
		Direction: dir,
		Distance:  dist,
		Emission:  emission,
		PDF:       solidAnglePDF,
	}
}

func (q *QuadLight) PDF(point, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	hit, ok := q.Quad.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		return 0
	}
	cosTheta := math.Abs(q.Quad.Normal.Dot(direction.Negate()))
	if cosTheta < 1e-8 {
		return 0
	}
	areaPDF := 1 / q.Quad.Area()
	return areaPDF * hit.T * hit.T / cosTheta
}

// Intersect reuses PDF's Quad.Hit test and solid-angle conversion, adding
// the distance and emitted radiance a BSDF-sampling MIS strategy also
// needs to recover what Sample would have returned for this direction.
func (q *QuadLight) Intersect(point, direction core.Vec3) (core.Vec3, float64, float64, bool) {
	ray := core.NewRay(point, direction)
	hit, ok := q.Quad.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		return core.Vec3{}, 0, 0, false
	}
	cosTheta := math.Abs(q.Quad.Normal.Dot(direction.Negate()))
	if cosTheta < 1e-8 {
		return core.Vec3{}, 0, 0, false
	}
	areaPDF := 1 / q.Quad.Area()
	solidAnglePDF := areaPDF * hit.T * hit.T / cosTheta

	var emission core.Vec3
	if emitter, ok := q.Quad.Material.(material.Emitter); ok {
		emission = emitter.Emit(ray)
	}
	return emission, hit.T, solidAnglePDF, true
}

func (q *QuadLight) SampleEmission(sampler core.Sampler) EmissionSample {
	u1, v1 := sampler.Get2D()
	point := q.Quad.SamplePoint(u1, v1)

	u2, v2 := sampler.Get2D()
	dir := cosineSampleHemisphere(q.Quad.Normal, u2, v2)
	cosTheta := dir.Dot(q.Quad.Normal)

	areaPDF := 1 / q.Quad.Area()
	dirPDF := cosTheta / math.Pi

	var radiance core.Vec3
	if emitter, ok := q.Quad.Material.(material.Emitter); ok {
		radiance = emitter.Emit(core.NewRay(point, dir))
	}

	return EmissionSample{
		Point:     point,
		Normal:    q.Quad.Normal,
		Direction: dir,
		Radiance:  radiance,
		PDF:       areaPDF * dirPDF,
	}
}

func (q *QuadLight) EmissionPDF(point, direction core.Vec3) float64 {
	cosTheta := direction.Dot(q.Quad.Normal)
	if cosTheta <= 0 {
		return 0
	}
	return (1 / q.Quad.Area()) * (cosTheta / math.Pi)
}

func (q *QuadLight) IsDelta() bool { return false }

func (q *QuadLight) Power() float64 {
	var radiance core.Vec3
	if emitter, ok := q.Quad.Material.(material.Emitter); ok {
		radiance = emitter.Emit(core.Ray{})
	}
	return radiance.Luminance() * q.Quad.Area() * math.Pi
}

func uniformSphereDirection(u, v float64) core.Vec3 {
	z := 1 - 2*u
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * v
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// cosineSampleHemisphere mirrors material.cosineSampleHemisphere but
// lives here too since that helper is unexported across the package
// boundary; both build the same orthonormal basis around normal.
func cosineSampleHemisphere(normal core.Vec3, u, v float64) core.Vec3 {
	r := math.Sqrt(u)
	theta := 2 * math.Pi * v
	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u))

	sign := math.Copysign(1, normal.Z)
	a := -1 / (sign + normal.Z)
	c := normal.X * normal.Y * a
	t := core.NewVec3(1+sign*normal.X*normal.X*a, sign*c, -sign*normal.X)
	b := core.NewVec3(c, sign+normal.Y*normal.Y*a, -normal.Y)

	return t.Multiply(x).Add(b.Multiply(y)).Add(normal.Multiply(z)).Normalize()
}
