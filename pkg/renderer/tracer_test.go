package renderer

import (
	"math/rand"
	"testing"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
	"github.com/df07/go-simple-pathtracer/pkg/material"
	"github.com/df07/go-simple-pathtracer/pkg/scene"
)

func mirrorSphereScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.New("mirror",
		[]geometry.Shape{geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, 0)},
		[]material.Material{material.NewMetal()})
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	return s
}

func TestBackground(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"unnormalized up", core.NewVec3(0, 10, 0), core.NewVec3(0.5, 0.7, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Background(core.NewRay(core.Vec3{}, tt.direction))
			if !vecNear(got, tt.expected, 1e-6) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTracer_MissReturnsBackground(t *testing.T) {
	tracer := NewTracer(mirrorSphereScene(t), DefaultConfig())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	got := tracer.Trace(ray, 0, rand.New(rand.NewSource(1)))
	if got != Background(ray) {
		t.Errorf("Expected background %v, got %v", Background(ray), got)
	}
}

func TestTracer_DepthTermination(t *testing.T) {
	config := DefaultConfig()
	tracer := NewTracer(mirrorSphereScene(t), config)

	// Aimed straight at the sphere, but the bounce budget is already spent
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	got, rays := tracer.trace(ray, config.MaxDepth, rand.New(rand.NewSource(1)))

	if got != Background(ray) {
		t.Errorf("Expected exact background %v at max depth, got %v", Background(ray), got)
	}
	if rays != 0 {
		t.Errorf("Expected no intersection queries at max depth, got %d", rays)
	}
}

func TestTracer_MirrorBounce(t *testing.T) {
	tracer := NewTracer(mirrorSphereScene(t), DefaultConfig())

	// Hits the front of the sphere at (0,0,-0.5) and reflects straight back along +z
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	got, rays := tracer.trace(ray, 0, rand.New(rand.NewSource(1)))

	expected := Background(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))).Multiply(0.5)
	if !vecNear(got, expected, 1e-6) {
		t.Errorf("Expected attenuated background %v, got %v", expected, got)
	}
	if rays != 2 {
		t.Errorf("Expected 2 intersection queries, got %d", rays)
	}
}

func TestTracer_Attenuation(t *testing.T) {
	config := DefaultConfig()
	config.Attenuation = 0.25
	tracer := NewTracer(mirrorSphereScene(t), config)

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	got := tracer.Trace(ray, 0, rand.New(rand.NewSource(1)))

	expected := Background(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))).Multiply(0.25)
	if !vecNear(got, expected, 1e-6) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestTracer_LambertianDarkensBackground(t *testing.T) {
	tracer := NewTracer(scene.NewLambertianScene(), DefaultConfig())
	random := rand.New(rand.NewSource(7))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	for i := 0; i < 100; i++ {
		got := tracer.Trace(ray, 0, random)
		if got.X <= 0 || got.Y <= 0 || got.Z <= 0 {
			t.Fatalf("Expected every channel to stay positive, got %v", got)
		}
		// At least one bounce: at most half of the brightest sky
		if got.X > 0.5 || got.Y > 0.5 || got.Z > 0.5 {
			t.Fatalf("Expected at most 0.5 per channel after a bounce, got %v", got)
		}
	}
}
