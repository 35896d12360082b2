package material

import (
	"math/rand"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
)

// Metal represents a perfect mirror
type Metal struct{}

// NewMetal creates a new metal material
func NewMetal() *Metal {
	return &Metal{}
}

// Scatter implements the Material interface for mirror reflection
func (m *Metal) Scatter(rayIn core.Ray, hit geometry.Hit, random *rand.Rand) (core.Ray, bool) {
	// r = d - 2(d·n)n
	reflected := rayIn.Direction.Reflect(hit.Normal)
	return core.NewRay(hit.Point, reflected), true
}

func (m *Metal) material() {}
