package geometry

import (
	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// parallelEpsilon is the smallest determinant accepted by the Möller-Trumbore test.
// Anything below it is either parallel to the plane or facing away from the normal.
const parallelEpsilon = 1e-6

// Triangle represents a single one-sided triangle defined by three vertices.
// Only rays travelling against the face normal (V1-V0)×(V2-V0) can hit it.
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	Material   int       // Material index
	normal     core.Vec3 // Cached unit face normal
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material int) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}
	t.computeNormal()
	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float32) (Hit, bool) {
	tParam, _, _, ok := t.intersect(ray, tMin, tMax)
	if !ok {
		return Hit{}, false
	}

	return Hit{
		T:        tParam,
		Point:    ray.At(tParam),
		Normal:   t.normal,
		Material: t.Material,
	}, true
}

// intersect returns the ray parameter and the barycentric weights (u, v) of the hit.
// Hit only needs tParam; u and v are returned so the barycentric bounds can be checked directly.
// They stay scaled by det through the bounds tests and are divided once on success.
func (t *Triangle) intersect(ray core.Ray, tMin, tMax float32) (tParam, u, v float32, ok bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	pvec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	// Back-facing or parallel
	if det < parallelEpsilon {
		return 0, 0, 0, false
	}

	tvec := ray.Origin.Subtract(t.V0)
	u = tvec.Dot(pvec)
	if u < 0 || u > det {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(edge1)
	v = ray.Direction.Dot(qvec)
	if v < 0 || u+v > det {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	tParam = edge2.Dot(qvec) * invDet
	if tParam <= tMin || tParam >= tMax {
		return 0, 0, 0, false
	}

	return tParam, u * invDet, v * invDet, true
}

// Normal returns the triangle's unit face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// MaterialIndex returns the triangle's material index
func (t *Triangle) MaterialIndex() int { return t.Material }

func (t *Triangle) shape() {}
