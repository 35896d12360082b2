package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float32
	Material int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32, material int) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float32) (Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// A tangent ray (zero discriminant) is treated as a miss
	discriminant := b*b - 4.0*a*c
	if discriminant <= 0 {
		return Hit{}, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Try the closer intersection point first
	for _, root := range [2]float32{(-b - sqrtD) / (2.0 * a), (-b + sqrtD) / (2.0 * a)} {
		if root > tMin && root < tMax {
			point := ray.At(root)
			return Hit{
				T:        root,
				Point:    point,
				Normal:   point.Subtract(s.Center).Divide(s.Radius),
				Material: s.Material,
			}, true
		}
	}

	return Hit{}, false
}

// MaterialIndex returns the sphere's material index
func (s *Sphere) MaterialIndex() int { return s.Material }

func (s *Sphere) shape() {}
