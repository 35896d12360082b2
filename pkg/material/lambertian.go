package material

import (
	"math/rand"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
)

// Lambertian represents a diffuse material.
// It bounces towards the surface normal perturbed by a random point inside the unit sphere.
type Lambertian struct {
	table *LambertTable // Optional precomputed perturbations
}

// NewLambertian creates a lambertian material that samples the unit sphere on every bounce
func NewLambertian() *Lambertian {
	return &Lambertian{}
}

// NewTableLambertian creates a lambertian material that draws perturbations from a precomputed table
func NewTableLambertian(table *LambertTable) *Lambertian {
	return &Lambertian{table: table}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit geometry.Hit, random *rand.Rand) (core.Ray, bool) {
	var perturbation core.Vec3
	if l.table != nil {
		perturbation = l.table.Get(random)
	} else {
		perturbation = core.RandomInUnitSphere(random)
	}

	return core.NewRay(hit.Point, hit.Normal.Add(perturbation)), true
}

// Table returns the precomputed perturbation table, or nil when sampling directly
func (l *Lambertian) Table() *LambertTable {
	return l.table
}

func (l *Lambertian) material() {}
