// Package geometry implements the Shape surfaces and the bounding volume
// hierarchy that accelerates ray intersection against them. These are
// external collaborators: narrow enough to drive the Monte-Carlo core,
// the photon prepass and the surface integrators in tests, not a full
// scene-description front end.
package geometry

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// Shape is anything a ray can hit.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	BoundingBox() core.AABB
}
