package geometry

import (
	"fmt"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// TriangleMeshOptions contains optional transforms applied to mesh vertices
type TriangleMeshOptions struct {
	Scale  float32   // Uniform scale around the origin (0 means 1)
	Offset core.Vec3 // Translation applied after scaling
}

// NewTriangleMesh creates triangles from vertices and face indices.
// Each group of 3 indices in faces forms one triangle sharing the given material.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material int, options *TriangleMeshOptions) ([]Shape, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	workingVertices := vertices
	if options != nil {
		scale := options.Scale
		if scale == 0 {
			scale = 1
		}
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			workingVertices[i] = vertex.Multiply(scale).Add(options.Offset)
		}
	}

	numTriangles := len(faces) / 3
	triangles := make([]Shape, 0, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(workingVertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of bounds (%d vertices)", i, idx, len(workingVertices))
			}
		}

		v0, v1, v2 := workingVertices[i0], workingVertices[i1], workingVertices[i2]

		// Skip degenerate faces; they can never be hit
		if v1.Subtract(v0).Cross(v2.Subtract(v0)).LengthSquared() == 0 {
			continue
		}
		triangles = append(triangles, NewTriangle(v0, v1, v2, material))
	}

	return triangles, nil
}
