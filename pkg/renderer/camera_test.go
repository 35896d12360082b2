package renderer

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

func vecNear(a, b core.Vec3, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol && math32.Abs(a.Y-b.Y) <= tol && math32.Abs(a.Z-b.Z) <= tol
}

func TestCamera_GetRay(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig())

	tests := []struct {
		name     string
		u, v     float32
		expected core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1).Normalize()},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1).Normalize()},
		{"top middle", 0.5, 1, core.NewVec3(0, 1, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.u, tt.v)
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Expected origin at zero, got %v", ray.Origin)
			}
			if !vecNear(ray.Direction, tt.expected, 1e-6) {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
			if math32.Abs(ray.Direction.Length()-1) > 1e-6 {
				t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
			}
		})
	}
}

func TestCamera_OffsetOrigin(t *testing.T) {
	config := DefaultCameraConfig()
	config.Origin = core.NewVec3(0, 1, 0)
	config.LowerLeft = core.NewVec3(-2, 0, -1)
	camera := NewCamera(config)

	// Viewport moved up with the origin, so the centre ray still looks straight ahead
	ray := camera.GetRay(0.5, 0.5)
	if !vecNear(ray.Direction, core.NewVec3(0, 0, -1), 1e-6) {
		t.Errorf("Expected direction (0,0,-1), got %v", ray.Direction)
	}
	if ray.Origin != config.Origin {
		t.Errorf("Expected origin %v, got %v", config.Origin, ray.Origin)
	}
}
