package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrUnsupportedFormat is returned for PLY files in an unknown encoding
var ErrUnsupportedFormat = errors.New("unsupported PLY format")

// PLYHeader represents the parsed header of a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string
	Comments []string
	Elements []PLYElement
}

// PLYElement is one "element" block: a record layout repeated Count times
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Scalar type; for lists the type of each entry
	IsList   bool
	ListType string // For list properties, the type of the count
}

// Element returns the named element, or nil when the header has none
func (h *PLYHeader) Element(name string) *PLYElement {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// LoadPLY loads a PLY model from a local path or URL
func LoadPLY(location string) (*MeshData, error) {
	res, err := OpenResource(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer res.Close()

	return ReadPLY(res)
}

// ReadPLY reads vertex positions and polygon faces from an ascii or binary
// PLY stream. Faces are fan-triangulated; other elements are skipped.
func ReadPLY(res *Resource) (*MeshData, error) {
	start := time.Now()
	reader := bufio.NewReader(res)

	header, err := ReadPLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = &plyASCIIReader{reader: reader}
	case "binary_little_endian":
		values = &plyBinaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%s: %w: %q", res.Path(), ErrUnsupportedFormat, header.Format)
	}

	data := &MeshData{}
	for _, element := range header.Elements {
		var err error
		switch element.Name {
		case "vertex":
			err = data.readPLYVertices(values, element)
		case "face":
			err = data.readPLYFaces(values, element)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: element %q: %w", res.Path(), element.Name, err)
		}
	}

	if len(data.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", res.Path(), ErrEmptyMesh)
	}

	logger.Noticef("parsed %q: %d vertices, %d triangles in %v",
		res.Path(), len(data.Vertices), data.TriangleCount(), time.Since(start))
	return data, nil
}

// ReadPLYHeader consumes the header up to and including "end_header"
func ReadPLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var current *PLYElement

	for lineNum := 1; ; lineNum++ {
		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			return nil, fmt.Errorf("header ended before end_header: %w", io.ErrUnexpectedEOF)
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if lineNum == 1 {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			continue
		}
		if line == "end_header" {
			return header, nil
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: invalid format line", lineNum)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment":
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: invalid element line", lineNum)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("line %d: invalid element count: %s", lineNum, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, fmt.Errorf("line %d: property before any element", lineNum)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			current.Properties = append(current.Properties, prop)
		}

		if err == io.EOF {
			return nil, fmt.Errorf("header ended before end_header: %w", io.ErrUnexpectedEOF)
		}
	}
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
		if plyTypeSize(parts[1]) == 0 || plyTypeSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown list type %s %s", parts[1], parts[2])
		}
		return PLYProperty{Name: parts[3], Type: parts[2], IsList: true, ListType: parts[1]}, nil
	}

	if plyTypeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("unknown property type %s", parts[0])
	}
	return PLYProperty{Name: parts[1], Type: parts[0]}, nil
}

func (d *MeshData) readPLYVertices(values plyValueReader, element PLYElement) error {
	position := [3]int{-1, -1, -1}
	for i, prop := range element.Properties {
		switch prop.Name {
		case "x":
			position[0] = i
		case "y":
			position[1] = i
		case "z":
			position[2] = i
		}
	}
	if position[0] < 0 || position[1] < 0 || position[2] < 0 {
		return fmt.Errorf("vertex needs x, y and z properties")
	}

	d.Vertices = make([]core.Vec3, 0, element.Count)
	record := make([]float64, len(element.Properties))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Properties {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return err
				}
				continue
			}
			value, err := values.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", v, err)
			}
			record[i] = value
		}
		d.Vertices = append(d.Vertices, core.NewVec3(record[position[0]], record[position[1]], record[position[2]]))
	}
	return nil
}

func (d *MeshData) readPLYFaces(values plyValueReader, element PLYElement) error {
	indexProp := -1
	for i, prop := range element.Properties {
		if prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
			indexProp = i
		}
	}
	if indexProp < 0 {
		return fmt.Errorf("face needs a vertex_indices list")
	}

	var indices []int
	for f := 0; f < element.Count; f++ {
		for i, prop := range element.Properties {
			if i != indexProp {
				if err := skipPLYProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			n, err := values.scalar(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			if n < 3 {
				return fmt.Errorf("face %d: %w; got %d", f, ErrUnsupportedFace, int(n))
			}

			indices = indices[:0]
			for k := 0; k < int(n); k++ {
				value, err := values.scalar(prop.Type)
				if err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				index := int(value)
				if index < 0 || index >= len(d.Vertices) {
					return fmt.Errorf("face %d: index %d out of bounds (%d vertices)", f, index, len(d.Vertices))
				}
				indices = append(indices, index)
			}

			// Fan triangulation around the first vertex
			for k := 1; k+1 < len(indices); k++ {
				d.Faces = append(d.Faces, indices[0], indices[k], indices[k+1])
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, element PLYElement) error {
	for n := 0; n < element.Count; n++ {
		for _, prop := range element.Properties {
			if err := skipPLYProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.scalar(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop PLYProperty) error {
	n, err := values.scalar(prop.ListType)
	if err != nil {
		return err
	}
	for k := 0; k < int(n); k++ {
		if _, err := values.scalar(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyTypeSize returns the byte width of a PLY scalar type, or 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "int32", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// plyValueReader yields successive scalar values of the body
type plyValueReader interface {
	scalar(dataType string) (float64, error)
}

// plyASCIIReader treats the body as a stream of whitespace separated numbers
type plyASCIIReader struct {
	reader *bufio.Reader
	fields []string
}

func (r *plyASCIIReader) scalar(dataType string) (float64, error) {
	for len(r.fields) == 0 {
		line, err := r.reader.ReadString('\n')
		r.fields = strings.Fields(line)
		if err != nil && len(r.fields) == 0 {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}

	token := r.fields[0]
	r.fields = r.fields[1:]
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return value, nil
}

type plyBinaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (r *plyBinaryReader) scalar(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	b := r.buf[:size]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(b))), nil
	default:
		return math.Float64frombits(r.order.Uint64(b)), nil
	}
}
