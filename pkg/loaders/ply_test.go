package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

const asciiQuad = `ply
format ascii 1.0
comment unit quad split by fan triangulation
element vertex 4
property float x
property float y
property float z
property uchar red
element face 1
property list uchar int vertex_indices
end_header
0 0 0 255
1 0 0 255
1 1 0 255
0 1 0 255
4 0 1 2 3
`

func TestReadPLY_ASCII(t *testing.T) {
	data, err := ReadPLY(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(data.Vertices) != 4 {
		t.Fatalf("Expected 4 vertices, got %d", len(data.Vertices))
	}
	if data.Vertices[2] != core.NewVec3(1, 1, 0) {
		t.Errorf("Expected vertex 2 = (1,1,0), got %v", data.Vertices[2])
	}

	expectedFaces := []int{0, 1, 2, 0, 2, 3}
	if len(data.Faces) != len(expectedFaces) {
		t.Fatalf("Expected %d face indices, got %d", len(expectedFaces), len(data.Faces))
	}
	for i, idx := range expectedFaces {
		if data.Faces[i] != idx {
			t.Errorf("Face index %d: expected %d, got %d", i, idx, data.Faces[i])
		}
	}
}

func TestReadPLY_BinaryLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty float z\nproperty double quality\n")
	buf.WriteString("element face 1\nproperty list uchar uint vertex_indices\nproperty int flags\n")
	buf.WriteString("end_header\n")

	vertices := [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, -1}}
	for _, v := range vertices {
		binary.Write(&buf, binary.LittleEndian, v)
		binary.Write(&buf, binary.LittleEndian, float64(0.5))
	}
	buf.WriteByte(3)
	binary.Write(&buf, binary.LittleEndian, [3]uint32{0, 1, 2})
	binary.Write(&buf, binary.LittleEndian, int32(-7))

	data, err := ReadPLY(&buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(data.Vertices) != 3 {
		t.Fatalf("Expected 3 vertices, got %d", len(data.Vertices))
	}
	if data.Vertices[2] != core.NewVec3(0, 2, -1) {
		t.Errorf("Expected vertex (0,2,-1), got %v", data.Vertices[2])
	}
	if len(data.Faces) != 3 || data.Faces[0] != 0 || data.Faces[1] != 1 || data.Faces[2] != 2 {
		t.Errorf("Expected faces [0 1 2], got %v", data.Faces)
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"big endian", "ply\nformat binary_big_endian 1.0\nelement vertex 0\nend_header\n"},
		{"unknown format", "ply\nformat xml 1.0\nend_header\n"},
		{"missing end_header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"bad count", "ply\nformat ascii 1.0\nelement vertex many\nend_header\n"},
		{"unknown property type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quaternion x\nend_header\n"},
		{"truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nend_header\n1\n"},
		{"face index out of range", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0\n3 0 1 2\n"},
		{"degenerate face", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0\n1\n2 0 1\n"},
		{"non-numeric value", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\nabc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error, got none")
			}
		})
	}
}

func TestLoadPLY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiQuad), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	data, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data.Faces)/3 != 2 {
		t.Errorf("Expected 2 triangles, got %d", len(data.Faces)/3)
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("Expected error for missing file")
	}
}
