package geometry

import "github.com/df07/go-simple-pathtracer/pkg/core"

// Hit contains information about a ray-object intersection.
// A Hit is only meaningful when the accompanying ok flag is true.
type Hit struct {
	T        float32   // Parameter t along the ray, strictly inside the query window
	Point    core.Vec3 // Point of intersection, equal to ray.At(T)
	Normal   core.Vec3 // Unit surface normal
	Material int       // Index into the scene's material list
}

// Shape is implemented by the primitives the scene can hold.
// The set of shapes is closed: only types in this package implement it.
type Shape interface {
	// Hit returns the closest intersection strictly inside (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float32) (Hit, bool)
	// MaterialIndex returns the index of the shape's material in the scene
	MaterialIndex() int

	shape()
}
