package lights

import "github.com/yafaray-go/yafaray/pkg/qmc"

// Sampler picks one light from a fixed set weighted by radiant power,
// the same distribution the photon prepass uses to decide how many
// photons to shoot from each light and direct lighting uses to pick
// which light to sample.
type Sampler struct {
	lights []Light
	pdf    *qmc.Pdf1D
}

// NewSampler builds a light sampler whose selection probability for each
// light is proportional to its Power(). Lights with zero total power
// fall back to a uniform distribution so a scene of only point lights
// (reporting finite, possibly tiny, power) still works.
func NewSampler(lights []Light) *Sampler {
	powers := make([]float64, len(lights))
	total := 0.0
	for i, l := range lights {
		powers[i] = l.Power()
		total += powers[i]
	}
	if total <= 0 {
		for i := range powers {
			powers[i] = 1
		}
	}
	return &Sampler{lights: lights, pdf: qmc.NewPdf1D(powers)}
}

// Sample draws a light using u in [0,1), returning it along with the
// discrete selection probability assigned to it (for MIS against BSDF
// sampling) and its index.
func (s *Sampler) Sample(u float64) (Light, float64, int) {
	if len(s.lights) == 0 {
		return nil, 0, -1
	}
	idx, pdf := s.pdf.DSample(u, nil)
	return s.lights[idx], pdf / float64(s.pdf.Count()), idx
}

// Probability returns the selection probability for the light at index,
// used when converting a BSDF-sampled light hit back into a light pdf
// for MIS. It uses the same power weights, and the same uniform fallback
// when total power is zero, that NewSampler builds Sample's pdf from.
func (s *Sampler) Probability(index int) float64 {
	if index < 0 || index >= len(s.lights) {
		return 0
	}
	total := 0.0
	for _, l := range s.lights {
		total += l.Power()
	}
	if total <= 0 {
		return 1 / float64(len(s.lights))
	}
	return s.lights[index].Power() / total
}

// Count returns the number of lights in the sampler.
func (s *Sampler) Count() int { return len(s.lights) }
