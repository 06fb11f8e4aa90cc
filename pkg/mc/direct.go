package mc

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/lights"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// EstimateAllDirectLight sums the direct-lighting contribution of every
// light in the scene at hit, seen along wo. Grounded on
// estimateAllDirectLight: a straight loop calling doLightEstimation per
// light and adding the results.
func (c *Core) EstimateAllDirectLight(hit material.HitRecord, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	var col core.Vec3
	for _, l := range c.Lights {
		col = col.Add(c.doLightEstimation(l, hit, wo, sampler))
	}
	return col
}

// EstimateOneDirectLight samples a single light, chosen with probability
// proportional to its radiant power, and scales the result by the
// inverse of that selection probability. Grounded on
// estimateOneDirectLight, generalized from the teacher's uniform
// 1/numLights pick (a Halton-driven index) to the power-weighted
// lights.Sampler this codebase already builds for photon shooting.
func (c *Core) EstimateOneDirectLight(hit material.HitRecord, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	if c.LightSampler == nil || c.LightSampler.Count() == 0 {
		return core.Vec3{}
	}
	u := sampler.Get1D()
	light, _, idx := c.LightSampler.Sample(u)
	if light == nil {
		return core.Vec3{}
	}
	probability := c.LightSampler.Probability(idx)
	if probability <= 0 {
		return core.Vec3{}
	}
	return c.doLightEstimation(light, hit, wo, sampler).Multiply(1 / probability)
}

// doLightEstimation dispatches to the delta-light or area-light
// estimator for light, matching the dirac-vs-area split in
// doLightEstimation.
func (c *Core) doLightEstimation(l lights.Light, hit material.HitRecord, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	if l.IsDelta() {
		return c.diracLight(l, hit, wo)
	}
	col := c.areaLightSampleLight(l, hit, wo, sampler)
	return col.Add(c.areaLightSampleMaterial(l, hit, wo, sampler))
}

// diracLight handles point/directional lights: a single shadow-tested
// sample with no pdf division (the delta distribution's pdf is folded
// into the light's own radiance falloff). Grounded on diracLight.
func (c *Core) diracLight(l lights.Light, hit material.HitRecord, wo core.Vec3) core.Vec3 {
	sample := l.Sample(hit.Point, nil)
	if sample.PDF <= 0 {
		return core.Vec3{}
	}
	shadowRay := core.NewRay(hit.Point, sample.Direction)
	if c.Occluded != nil && c.Occluded(shadowRay, sample.Distance-c.RayEpsilon) {
		return core.Vec3{}
	}
	cosTheta := hit.Normal.AbsDot(sample.Direction)
	brdf := hit.Material.EvaluateBRDF(wo, sample.Direction, hit.Normal)
	return brdf.MultiplyVec(sample.Emission).Multiply(cosTheta)
}

// areaLightSampleLight is the light-sampling half of the two-strategy
// MIS estimator areaLightSampleLight/areaLightSampleMaterial compute
// together: it samples a point on the light directly and weights the
// result against the material's own PDF for that direction via the
// power heuristic.
func (c *Core) areaLightSampleLight(l lights.Light, hit material.HitRecord, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	sample := l.Sample(hit.Point, sampler)
	if sample.PDF <= 1e-6 {
		return core.Vec3{}
	}
	shadowRay := core.NewRay(hit.Point, sample.Direction)
	if c.Occluded != nil && c.Occluded(shadowRay, sample.Distance-c.RayEpsilon) {
		return core.Vec3{}
	}
	cosTheta := hit.Normal.AbsDot(sample.Direction)
	brdf := hit.Material.EvaluateBRDF(wo, sample.Direction, hit.Normal)

	weight := 1.0
	if matPDF, isDelta := hit.Material.PDF(wo, sample.Direction, hit.Normal); !isDelta && matPDF > 1e-6 {
		weight = powerHeuristic(sample.PDF, matPDF)
	}
	return brdf.MultiplyVec(sample.Emission).Multiply(cosTheta * weight / sample.PDF)
}

// areaLightSampleMaterial is the BSDF-sampling half of the two-strategy
// MIS estimator: it draws a scattering direction from the material
// instead of the light, and only contributes if that direction actually
// reaches l's surface. wo is the only direction a BSDF sample needs to
// be reconstructed from here, since the incoming ray's own direction is
// -wo by convention and only matters for specular materials, which
// never reach this function (a delta ScatterResult is skipped below).
// Grounded on areaLightSampleMaterial, whose col += surf_col*lcol*w*W
// is this function's brdf*emission*weight*cosTheta/pdf, with W already
// folding in cosTheta/pdf and w the same power-heuristic weight.
func (c *Core) areaLightSampleMaterial(l lights.Light, hit material.HitRecord, wo core.Vec3, sampler core.Sampler) core.Vec3 {
	rayIn := core.NewRay(hit.Point, wo.Negate())
	scatter, ok := hit.Material.Scatter(rayIn, hit, sampler)
	if !ok || scatter.IsSpecular() {
		return core.Vec3{}
	}

	wi := scatter.Scattered.Direction
	cosTheta := hit.Normal.Dot(wi)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	emission, distance, lightPDF, hitLight := l.Intersect(hit.Point, wi)
	if !hitLight || lightPDF <= 1e-6 {
		return core.Vec3{}
	}

	shadowRay := core.NewRay(hit.Point, wi)
	if c.Occluded != nil && c.Occluded(shadowRay, distance-c.RayEpsilon) {
		return core.Vec3{}
	}

	weight := powerHeuristic(scatter.PDF, lightPDF)
	return scatter.Attenuation.MultiplyVec(emission).Multiply(cosTheta * weight / scatter.PDF)
}

// powerHeuristic is Veach's 2-sample power heuristic with beta=2,
// matching the l_2/(l_2+m_2) weight computed inline in
// areaLightSampleLight/areaLightSampleMaterial.
func powerHeuristic(fPDF, gPDF float64) float64 {
	f2 := fPDF * fPDF
	g2 := gPDF * gPDF
	if f2+g2 <= 0 {
		return 0
	}
	return f2 / (f2 + g2)
}
