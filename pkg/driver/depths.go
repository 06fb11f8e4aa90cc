package driver

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/scene"
)

// PrecalcDepths samples the scene at primary-hit resolution (pixel centers,
// no jitter) to seed the z-depth-norm layer's min/max range. Grounded on
// TiledIntegrator::precalcDepths in
// original_source/src/integrator/integrator_tiled.cc: that function also
// special-cases a camera with a finite far clip plane (near/far taken
// directly, no scene sampling needed); this codebase's Camera has no clip
// planes, so every call samples the scene.
//
// Returns minDepth and the inverse depth range 1/(maxDepth-minDepth), 0 if
// nothing was hit anywhere in the image.
func PrecalcDepths(sc *scene.Scene, width, height int) (minDepth, invDepthRange float64) {
	minDepth = math.Inf(1)
	var maxDepth float64

	for y := 0; y < height; y++ {
		t := (float64(y) + 0.5) / float64(height)
		for x := 0; x < width; x++ {
			s := (float64(x) + 0.5) / float64(width)
			ray := sc.Camera.GetRay(s, t)
			hit, ok := sc.Hit(ray, 1e-4, math.Inf(1))
			if !ok {
				continue
			}
			if hit.T > maxDepth {
				maxDepth = hit.T
			}
			if hit.T < minDepth {
				minDepth = hit.T
			}
		}
	}

	if math.IsInf(minDepth, 1) {
		return 0, 0
	}
	if maxDepth <= minDepth {
		return minDepth, 0
	}
	return minDepth, 1 / (maxDepth - minDepth)
}
