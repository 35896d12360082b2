package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
	"github.com/df07/go-simple-pathtracer/pkg/loaders"
	"github.com/df07/go-simple-pathtracer/pkg/material"
)

// Vec3JSON is a vector written as a [x, y, z] array
type Vec3JSON [3]float32

func (v Vec3JSON) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// File is the JSON description of a scene
type File struct {
	Name      string         `json:"name,omitempty"`
	Materials []MaterialJSON `json:"materials"`
	Spheres   []SphereJSON   `json:"spheres,omitempty"`
	Triangles []TriangleJSON `json:"triangles,omitempty"`
	Meshes    []MeshJSON     `json:"meshes,omitempty"`
}

// MaterialJSON describes one material. Type is "lambertian" or "metal".
type MaterialJSON struct {
	Type  string `json:"type"`
	Table int    `json:"table,omitempty"` // Lambertian only: size of a precomputed perturbation table
	Seed  int64  `json:"seed,omitempty"`  // Seed used to fill the table
}

// SphereJSON describes a sphere
type SphereJSON struct {
	Center   Vec3JSON `json:"center"`
	Radius   float32  `json:"radius"`
	Material int      `json:"material"`
}

// TriangleJSON describes a single triangle; vertices are wound counter-clockwise seen from the visible side
type TriangleJSON struct {
	V0       Vec3JSON `json:"v0"`
	V1       Vec3JSON `json:"v1"`
	V2       Vec3JSON `json:"v2"`
	Material int      `json:"material"`
}

// MeshJSON references a PLY triangle mesh relative to the scene file
type MeshJSON struct {
	Path     string   `json:"path"`
	Material int      `json:"material"`
	Scale    float32  `json:"scale,omitempty"`
	Offset   Vec3JSON `json:"offset,omitempty"`
}

// Load reads a Scene from a JSON file
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Parse(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a JSON scene. Mesh paths are resolved against baseDir.
func Parse(r io.Reader, baseDir string) (*Scene, error) {
	var file File
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return file.Build(baseDir)
}

// Build converts the description into a validated Scene
func (f *File) Build(baseDir string) (*Scene, error) {
	materials := make([]material.Material, 0, len(f.Materials))
	for i, m := range f.Materials {
		mat, err := m.build()
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		materials = append(materials, mat)
	}

	var shapes []geometry.Shape
	for i, s := range f.Spheres {
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, s.Radius)
		}
		shapes = append(shapes, geometry.NewSphere(s.Center.vec(), s.Radius, s.Material))
	}

	for _, t := range f.Triangles {
		shapes = append(shapes, geometry.NewTriangle(t.V0.vec(), t.V1.vec(), t.V2.vec(), t.Material))
	}

	for i, m := range f.Meshes {
		meshPath := m.Path
		if !filepath.IsAbs(meshPath) {
			meshPath = filepath.Join(baseDir, meshPath)
		}
		data, err := loaders.LoadPLY(meshPath)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		triangles, err := geometry.NewTriangleMesh(data.Vertices, data.Faces, m.Material, &geometry.TriangleMeshOptions{
			Scale:  m.Scale,
			Offset: m.Offset.vec(),
		})
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		shapes = append(shapes, triangles...)
	}

	name := f.Name
	if name == "" {
		name = "custom"
	}
	return New(name, shapes, materials)
}

func (m MaterialJSON) build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		if m.Table == 0 {
			return material.NewLambertian(), nil
		}
		table, err := material.NewLambertTable(m.Table, rand.New(rand.NewSource(m.Seed)))
		if err != nil {
			return nil, err
		}
		return material.NewTableLambertian(table), nil
	case "metal":
		return material.NewMetal(), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}
