package material

import (
	"math/rand"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
)

// Material interface for surfaces that can scatter rays.
// The set of materials is closed: only types in this package implement it.
type Material interface {
	// Scatter returns the outgoing ray for an incoming ray striking the surface at hit,
	// and whether the ray was scattered at all.
	Scatter(rayIn core.Ray, hit geometry.Hit, random *rand.Rand) (core.Ray, bool)

	material()
}
