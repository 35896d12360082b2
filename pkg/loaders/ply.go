package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "ascii" or "binary_little_endian"
	Version     string // Usually "1.0"
	Elements    []PLYElement
	VertexCount int
	FaceCount   int
}

// PLYElement is one "element" block of the header with its properties in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the triangle data loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle); polygons are fan-triangulated
}

// LoadPLY loads a PLY file and returns its vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY parses ascii or binary little-endian PLY data from r
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var source plySource
	switch header.Format {
	case "ascii":
		source = &asciiSource{reader: reader}
	case "binary_little_endian":
		source = &binarySource{reader: reader}
	case "binary_big_endian":
		return nil, fmt.Errorf("binary big-endian PLY format not supported")
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	data := &PLYData{
		Vertices: make([]core.Vec3, 0, header.VertexCount),
		Faces:    make([]int, 0, header.FaceCount*3),
	}

	for _, element := range header.Elements {
		for i := 0; i < element.Count; i++ {
			if err := readElement(source, element, data); err != nil {
				return nil, fmt.Errorf("failed to read %s %d: %w", element.Name, i, err)
			}
		}
	}

	for _, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("face references vertex %d, file has %d vertices", idx, len(data.Vertices))
		}
	}

	return data, nil
}

// parsePLYHeader parses the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var current *PLYElement

	first := true
	for {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("unexpected end of header: %w", err)
		}
		line = strings.TrimSpace(line)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			first = false
			continue
		}

		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
			switch parts[1] {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			if current == nil {
				return nil, fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			current.Properties = append(current.Properties, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}

		if err == io.EOF {
			return nil, fmt.Errorf("missing end_header")
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		if scalarSize(parts[1]) == 0 || scalarSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown list types %s %s", parts[1], parts[2])
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}

	if scalarSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("unknown property type %s", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// readElement reads one vertex, face or unknown element, keeping only positions and indices
func readElement(source plySource, element PLYElement, data *PLYData) error {
	var vertex core.Vec3
	var polygon []int

	for _, prop := range element.Properties {
		if prop.IsList {
			n, err := source.next(prop.ListType)
			if err != nil {
				return err
			}
			count := int(n)
			values := make([]int, count)
			for k := 0; k < count; k++ {
				v, err := source.next(prop.DataType)
				if err != nil {
					return err
				}
				values[k] = int(v)
			}
			if element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
				polygon = values
			}
			continue
		}

		v, err := source.next(prop.Type)
		if err != nil {
			return err
		}
		if element.Name == "vertex" {
			switch prop.Name {
			case "x":
				vertex.X = float32(v)
			case "y":
				vertex.Y = float32(v)
			case "z":
				vertex.Z = float32(v)
			}
		}
	}

	if err := source.endElement(); err != nil {
		return err
	}

	switch element.Name {
	case "vertex":
		data.Vertices = append(data.Vertices, vertex)
	case "face":
		if len(polygon) < 3 {
			return fmt.Errorf("face has %d vertices, need at least 3", len(polygon))
		}
		// Fan triangulation around the first vertex
		for k := 1; k+1 < len(polygon); k++ {
			data.Faces = append(data.Faces, polygon[0], polygon[k], polygon[k+1])
		}
	}
	return nil
}

// scalarSize returns the byte size of a PLY scalar type, or 0 if unknown
func scalarSize(typ string) int {
	switch typ {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "int32", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}

// plySource yields scalar values from the body of a PLY file
type plySource interface {
	next(typ string) (float64, error)
	endElement() error
}

// asciiSource reads one element per line
type asciiSource struct {
	reader *bufio.Reader
	fields []string
}

func (a *asciiSource) next(typ string) (float64, error) {
	for len(a.fields) == 0 {
		line, err := a.reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return 0, fmt.Errorf("unexpected end of data: %w", err)
		}
		a.fields = strings.Fields(line)
	}

	field := a.fields[0]
	a.fields = a.fields[1:]
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", typ, field)
	}
	return v, nil
}

func (a *asciiSource) endElement() error {
	if len(a.fields) > 0 {
		return fmt.Errorf("unexpected trailing values %v", a.fields)
	}
	return nil
}

// binarySource reads packed little-endian values
type binarySource struct {
	reader *bufio.Reader
	buf    [8]byte
}

func (b *binarySource) next(typ string) (float64, error) {
	size := scalarSize(typ)
	if _, err := io.ReadFull(b.reader, b.buf[:size]); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", typ, err)
	}

	raw := b.buf[:size]
	switch typ {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw))), nil
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw)), nil
	}
}

func (b *binarySource) endElement() error { return nil }
