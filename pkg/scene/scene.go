package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
	"github.com/df07/go-simple-pathtracer/pkg/material"
)

// ErrNoMaterials is returned when a scene with shapes has no materials to reference
var ErrNoMaterials = errors.New("scene has shapes but no materials")

// Scene contains the shapes and materials of a render.
// It is never mutated after New returns, so workers may share it without locking.
type Scene struct {
	Name      string
	Shapes    []geometry.Shape    // Objects in the scene
	Materials []material.Material // Referenced by index from geometry.Hit
}

// New builds a scene, checking that every shape's material index resolves
func New(name string, shapes []geometry.Shape, materials []material.Material) (*Scene, error) {
	if len(shapes) > 0 && len(materials) == 0 {
		return nil, ErrNoMaterials
	}

	for i, mat := range materials {
		if mat == nil {
			return nil, fmt.Errorf("material %d is nil", i)
		}
	}

	for i, shape := range shapes {
		if shape == nil {
			return nil, fmt.Errorf("shape %d is nil", i)
		}
		if idx := shape.MaterialIndex(); idx < 0 || idx >= len(materials) {
			return nil, fmt.Errorf("shape %d references material %d, scene has %d materials", i, idx, len(materials))
		}
	}

	// Copy so later changes to the caller's slices cannot leak into a running render
	return &Scene{
		Name:      name,
		Shapes:    append([]geometry.Shape(nil), shapes...),
		Materials: append([]material.Material(nil), materials...),
	}, nil
}

// Hit returns the closest intersection of the ray with any shape inside (tMin, tMax)
func (s *Scene) Hit(ray core.Ray, tMin, tMax float32) (geometry.Hit, bool) {
	_, hit, isHit := s.HitShape(ray, tMin, tMax)
	return hit, isHit
}

// HitShape is like Hit but also reports the index of the shape that was hit
func (s *Scene) HitShape(ray core.Ray, tMin, tMax float32) (int, geometry.Hit, bool) {
	var closestHit geometry.Hit
	closestSoFar := tMax
	closestShape := -1

	for i, shape := range s.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
			closestShape = i
		}
	}

	return closestShape, closestHit, closestShape >= 0
}

// Material returns the material at the given index
func (s *Scene) Material(index int) material.Material {
	return s.Materials[index]
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}
