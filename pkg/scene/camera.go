// Package scene ties the external collaborators (shapes, materials,
// lights) together into the minimal Scene and Camera the Monte-Carlo
// core, the photon prepass and the tiled driver render against.
package scene

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
)

// CameraConfig describes a perspective camera in world space.
type CameraConfig struct {
	LookFrom    core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	VFOVDegrees float64
	AspectRatio float64
}

// Camera generates rays for normalized screen coordinates (s,t) in [0,1],
// origin at the lower-left corner of the image.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

func NewCamera(cfg CameraConfig) *Camera {
	theta := cfg.VFOVDegrees * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h
	viewportWidth := cfg.AspectRatio * viewportHeight

	w := cfg.LookFrom.Subtract(cfg.LookAt).Normalize()
	u := cfg.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := cfg.LookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          cfg.LookFrom,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay returns the ray through normalized screen coordinates (s,t).
func (c *Camera) GetRay(s, t float64) core.Ray {
	dir := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)
	return core.NewRay(c.origin, dir)
}
