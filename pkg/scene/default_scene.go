package scene

import (
	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
	"github.com/df07/go-simple-pathtracer/pkg/material"
)

// Material slots shared by the built-in scenes
const (
	lambertianIndex = 0
	metalIndex      = 1
)

func builtinMaterials() []material.Material {
	return []material.Material{
		material.NewLambertian(),
		material.NewMetal(),
	}
}

// groundSphere is the huge sphere whose top touches y = -0.5
func groundSphere(materialIndex int) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialIndex)
}

// NewDefaultScene creates a mirror sphere resting on a diffuse ground sphere
func NewDefaultScene() *Scene {
	return mustScene("default", []geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, metalIndex),
		groundSphere(lambertianIndex),
	}, builtinMaterials())
}

// NewLambertianScene creates a diffuse sphere resting on a diffuse ground sphere
func NewLambertianScene() *Scene {
	return mustScene("lambertian", []geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertianIndex),
		groundSphere(lambertianIndex),
	}, builtinMaterials())
}

// NewTriangleScene creates a four-sided pyramid between two spheres on the ground.
// Faces are wound counter-clockwise seen from outside so they face the camera.
func NewTriangleScene() *Scene {
	apex := core.NewVec3(0, 0.3, -1.2)
	frontLeft := core.NewVec3(-0.4, -0.5, -0.8)
	frontRight := core.NewVec3(0.4, -0.5, -0.8)
	backRight := core.NewVec3(0.4, -0.5, -1.6)
	backLeft := core.NewVec3(-0.4, -0.5, -1.6)

	shapes := []geometry.Shape{
		geometry.NewTriangle(frontLeft, frontRight, apex, lambertianIndex),
		geometry.NewTriangle(frontRight, backRight, apex, lambertianIndex),
		geometry.NewTriangle(backRight, backLeft, apex, lambertianIndex),
		geometry.NewTriangle(backLeft, frontLeft, apex, lambertianIndex),
		geometry.NewSphere(core.NewVec3(-1.1, -0.2, -1.3), 0.3, metalIndex),
		geometry.NewSphere(core.NewVec3(1.1, -0.2, -1.3), 0.3, lambertianIndex),
		groundSphere(lambertianIndex),
	}
	return mustScene("triangles", shapes, builtinMaterials())
}

// mustScene is only used for the hand-built scenes above, whose indices are known to be valid
func mustScene(name string, shapes []geometry.Shape, materials []material.Material) *Scene {
	s, err := New(name, shapes, materials)
	if err != nil {
		panic(err)
	}
	return s
}
