package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/material"
)

const sceneJSON = `{
  "name": "file-scene",
  "materials": [
    {"type": "lambertian"},
    {"type": "metal"},
    {"type": "lambertian", "table": 64, "seed": 7}
  ],
  "spheres": [
    {"center": [0, 0, -1], "radius": 0.5, "material": 1},
    {"center": [0, -100.5, -1], "radius": 100, "material": 0}
  ],
  "triangles": [
    {"v0": [-1, -0.5, -2], "v1": [1, -0.5, -2], "v2": [0, 1, -2], "material": 2}
  ]
}`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sceneJSON), ".")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.Name != "file-scene" {
		t.Errorf("Expected name file-scene, got %s", s.Name)
	}
	if s.GetPrimitiveCount() != 3 {
		t.Errorf("Expected 3 shapes, got %d", s.GetPrimitiveCount())
	}
	if len(s.Materials) != 3 {
		t.Fatalf("Expected 3 materials, got %d", len(s.Materials))
	}

	tabled, ok := s.Materials[2].(*material.Lambertian)
	if !ok {
		t.Fatalf("Expected lambertian, got %T", s.Materials[2])
	}
	if tabled.Table() == nil || tabled.Table().Size() != 64 {
		t.Errorf("Expected a 64 entry perturbation table")
	}

	hit, isHit := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 10000)
	if !isHit || hit.Material != 1 {
		t.Errorf("Expected metal sphere in front of the camera, got hit=%v material=%d", isHit, hit.Material)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"materials": [`},
		{"unknown field", `{"materials": [], "planes": []}`},
		{"unknown material", `{"materials": [{"type": "glass"}]}`},
		{"negative table", `{"materials": [{"type": "lambertian", "table": -1}]}`},
		{"bad radius", `{"materials": [{"type": "metal"}], "spheres": [{"center": [0,0,0], "radius": 0, "material": 0}]}`},
		{"bad material index", `{"materials": [{"type": "metal"}], "spheres": [{"center": [0,0,0], "radius": 1, "material": 4}]}`},
		{"shapes without materials", `{"materials": [], "spheres": [{"center": [0,0,0], "radius": 1, "material": 0}]}`},
		{"missing mesh", `{"materials": [{"type": "metal"}], "meshes": [{"path": "nope.ply", "material": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.json), t.TempDir()); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoad_WithMesh(t *testing.T) {
	dir := t.TempDir()

	// A single triangle facing the camera, shifted and scaled by the mesh options
	ply := `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
-1 -1 0
1 -1 0
0 1 0
3 0 1 2
`
	if err := os.WriteFile(filepath.Join(dir, "tri.ply"), []byte(ply), 0644); err != nil {
		t.Fatalf("Failed to write mesh: %v", err)
	}

	sceneFile := `{
  "materials": [{"type": "lambertian"}],
  "meshes": [{"path": "tri.ply", "material": 0, "scale": 0.5, "offset": [0, 0, -3]}]
}`
	path := filepath.Join(dir, "mesh.json")
	if err := os.WriteFile(path, []byte(sceneFile), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Name != "custom" {
		t.Errorf("Expected default name custom, got %s", s.Name)
	}
	if s.GetPrimitiveCount() != 1 {
		t.Fatalf("Expected 1 triangle, got %d", s.GetPrimitiveCount())
	}

	hit, isHit := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 10000)
	if !isHit {
		t.Fatal("Expected mesh hit")
	}
	if hit.T < 2.999 || hit.T > 3.001 {
		t.Errorf("Expected t=3, got %f", hit.T)
	}

	// Scaled to half size: a ray at x=0.6 passes beside the triangle
	if _, isHit := s.Hit(core.NewRay(core.NewVec3(0.6, -0.4, 0), core.NewVec3(0, 0, -1)), 0.001, 10000); isHit {
		t.Error("Expected ray beside the scaled mesh to miss")
	}
}

func TestResolve(t *testing.T) {
	if s, err := Resolve("lambertian"); err != nil || s.Name != "lambertian" {
		t.Errorf("Expected built-in lambertian scene, got %v, %v", s, err)
	}

	path := filepath.Join(t.TempDir(), "s.json")
	if err := os.WriteFile(path, []byte(sceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	if s, err := Resolve(path); err != nil || s.Name != "file-scene" {
		t.Errorf("Expected file scene, got %v, %v", s, err)
	}

	if _, err := Resolve("missing.json"); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scene files, got %d", len(scenes))
	}
	if scenes[0].DisplayName != "a" || scenes[1].DisplayName != "b" {
		t.Errorf("Expected sorted names a, b; got %s, %s", scenes[0].DisplayName, scenes[1].DisplayName)
	}

	missing, err := ListSceneFiles(filepath.Join(dir, "absent"))
	if err != nil || len(missing) != 0 {
		t.Errorf("Expected empty list for missing dir, got %v, %v", missing, err)
	}
}
