// Package material holds the narrow shading-time contract the Monte-Carlo
// core, the photon prepass and the surface integrators drive against:
// Material (BSDF sampling/evaluation), Emitter (area and point light
// emission), and the HitRecord a Shape.Hit call returns.
package material

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
)

// HitRecord describes a ray/shape intersection.
type HitRecord struct {
	Point     core.Vec3
	Normal    core.Vec3
	T         float64
	FrontFace bool
	Material  Material
}

// SetFaceNormal orients Normal against the incoming ray and records
// which face was hit.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ScatterResult is what a Material.Scatter call returns: a new ray
// leaving the hit point along with how much of the incoming radiance it
// carries, weighted by the sampling strategy used to pick it.
type ScatterResult struct {
	Scattered   core.Ray
	Attenuation core.Vec3
	PDF         float64 // 0 for delta (specular) scattering
}

// IsSpecular reports whether this scattering event came from a delta
// distribution with no well-defined PDF (mirrors, glass).
func (s ScatterResult) IsSpecular() bool { return s.PDF <= 0 }

// Material is the BSDF contract every surface that can scatter light
// implements.
type Material interface {
	// Scatter draws one outgoing direction from the material's sampling
	// strategy at hit, given the incoming ray.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// EvaluateBRDF returns the BSDF value for explicit incoming/outgoing
	// directions (both pointing away from the surface), used by direct
	// lighting's MIS weight against an explicitly sampled light direction.
	EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3

	// PDF returns the sampling density Scatter would have produced for
	// outgoingDir, and whether this material is a delta distribution (in
	// which case pdf is meaningless and isDelta is true).
	PDF(incomingDir, outgoingDir, normal core.Vec3) (pdf float64, isDelta bool)
}

// Emitter is implemented by materials that emit radiance along rayIn
// hitting them, independent of any scattering.
type Emitter interface {
	Emit(rayIn core.Ray) core.Vec3
}

// DiffuseReflector is implemented by materials the photon prepass should
// deposit a photon on contact with, as opposed to a purely specular
// surface a photon only bounces off of. Optional: a Material that
// doesn't implement it (Metal, Dielectric, Emissive) is never treated as
// a photon-storage surface.
type DiffuseReflector interface {
	IsDiffuse() bool
}

// Lambertian is a perfectly diffuse material: cosine-weighted scattering,
// constant BRDF albedo/pi.
type Lambertian struct {
	Albedo core.Vec3
}

func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	u, v := sampler.Get2D()
	dir := cosineSampleHemisphere(hit.Normal, u, v)
	pdf, _ := l.PDF(rayIn.Direction, dir, hit.Normal)
	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, dir),
		Attenuation: l.Albedo.Multiply(1 / math.Pi),
		PDF:         pdf,
	}, true
}

func (l *Lambertian) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	if outgoingDir.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1 / math.Pi)
}

func (l *Lambertian) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	cosTheta := outgoingDir.Normalize().Dot(normal)
	if cosTheta < 0 {
		cosTheta = 0
	}
	return cosTheta / math.Pi, false
}

// IsDiffuse implements DiffuseReflector: a Lambertian surface is exactly
// where the photon prepass deposits diffuse and caustic photons.
func (l *Lambertian) IsDiffuse() bool { return true }

// Metal is a glossy reflector: reflection perturbed by Fuzz within a
// sphere around the perfect mirror direction. Fuzz==0 is a perfect
// mirror (delta distribution).
type Metal struct {
	Albedo core.Vec3
	Fuzz   float64
}

func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	if fuzz > 1 {
		fuzz = 1
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)
	if m.Fuzz > 0 {
		u, v := sampler.Get2D()
		reflected = reflected.Add(uniformSampleSphere(u, v).Multiply(m.Fuzz)).Normalize()
	}
	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}
	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.Albedo,
		PDF:         0,
	}, true
}

func (m *Metal) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (m *Metal) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0, true
}

// Dielectric is a smooth refractive material (glass, water): reflects or
// refracts according to Fresnel/Schlick, always a delta distribution.
type Dielectric struct {
	RefractiveIndex float64
}

func NewDielectric(ior float64) *Dielectric {
	return &Dielectric{RefractiveIndex: ior}
}

func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	eta := d.RefractiveIndex
	if hit.FrontFace {
		eta = 1 / eta
	}

	unitDir := rayIn.Direction.Normalize()
	cosTheta := math.Min(unitDir.Negate().Dot(hit.Normal), 1)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	u, _ := sampler.Get2D()
	var dir core.Vec3
	if eta*sinTheta > 1 || schlick(cosTheta, eta) > u {
		dir = unitDir.Reflect(hit.Normal)
	} else {
		refracted, ok := unitDir.Refract(hit.Normal, eta)
		if !ok {
			dir = unitDir.Reflect(hit.Normal)
		} else {
			dir = refracted
		}
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, dir),
		Attenuation: core.NewVec3(1, 1, 1),
		PDF:         0,
	}, true
}

func (d *Dielectric) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (d *Dielectric) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0, true
}

func schlick(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// Emissive is a material that emits a constant radiance and does not
// scatter (used for area lights represented as geometry).
type Emissive struct {
	Radiance core.Vec3
}

func NewEmissive(radiance core.Vec3) *Emissive {
	return &Emissive{Radiance: radiance}
}

func (e *Emissive) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

func (e *Emissive) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (e *Emissive) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0, true
}

func (e *Emissive) Emit(rayIn core.Ray) core.Vec3 { return e.Radiance }

func cosineSampleHemisphere(normal core.Vec3, u, v float64) core.Vec3 {
	r := math.Sqrt(u)
	theta := 2 * math.Pi * v
	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u))

	t, b := orthonormalBasis(normal)
	return t.Multiply(x).Add(b.Multiply(y)).Add(normal.Multiply(z)).Normalize()
}

func uniformSampleSphere(u, v float64) core.Vec3 {
	z := 1 - 2*u
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * v
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// orthonormalBasis returns two vectors orthogonal to n and to each other,
// forming a right-handed basis with n as the z axis.
func orthonormalBasis(n core.Vec3) (t, b core.Vec3) {
	sign := math.Copysign(1, n.Z)
	a := -1 / (sign + n.Z)
	c := n.X * n.Y * a
	t = core.NewVec3(1+sign*n.X*n.X*a, sign*c, -sign*n.X)
	b = core.NewVec3(c, sign+n.Y*n.Y*a, -n.Y)
	return t, b
}
