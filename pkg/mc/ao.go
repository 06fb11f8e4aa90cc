package mc

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// AmbientOcclusion estimates how much of the cosine-weighted hemisphere
// above hit is unoccluded within distance, averaged over samples rays,
// returning a value in [0,1]. Grounded on the ao_/ao_samples_/
// ao_distance_/ao_color_ parameters declared on MonteCarloIntegrator::
// Params: every surface integrator that turns ao_ on blends this factor
// against aoColor the same way, so the blend itself is left to the
// integrator and this function only returns the raw visibility term.
func (c *Core) AmbientOcclusion(hit material.HitRecord, samples int, distance float64, sampler core.Sampler) float64 {
	if samples < 1 {
		samples = 1
	}
	if distance <= 0 {
		distance = 1
	}
	visible := 0.0
	for i := 0; i < samples; i++ {
		u, v := sampler.Get2D()
		dir := cosineSampleHemisphere(hit.Normal, u, v)
		ray := core.NewRay(hit.Point, dir)
		if c.Occluded == nil || !c.Occluded(ray, distance-c.RayEpsilon) {
			visible++
		}
	}
	return visible / float64(samples)
}

// cosineSampleHemisphere mirrors the helper of the same name in
// pkg/material and pkg/lights; each package keeps its own unexported
// copy since none of the three otherwise depend on each other.
func cosineSampleHemisphere(normal core.Vec3, u, v float64) core.Vec3 {
	r := math.Sqrt(u)
	theta := 2 * math.Pi * v
	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-u))

	sign := math.Copysign(1, normal.Z)
	a := -1 / (sign + normal.Z)
	cc := normal.X * normal.Y * a
	t := core.NewVec3(1+sign*normal.X*normal.X*a, sign*cc, -sign*normal.X)
	b := core.NewVec3(cc, sign+normal.Y*normal.Y*a, -normal.Y)

	return t.Multiply(x).Add(b.Multiply(y)).Add(normal.Multiply(z)).Normalize()
}
