package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

var (
	// ErrEmptyMesh is returned when a model defines no faces
	ErrEmptyMesh = errors.New("mesh has no faces")

	// ErrUnsupportedFace is returned for faces with fewer than three vertices
	ErrUnsupportedFace = errors.New("face needs at least 3 vertices")
)

var logger = log.New("loaders")

// MeshData contains the geometry read from an OBJ or PLY model
type MeshData struct {
	Vertices  []core.Vec3
	Normals   []core.Vec3
	TexCoords []core.Vec2
	Faces     []int // Triangle vertex indices (3 per triangle)
}

// TriangleCount returns the number of triangles after triangulation
func (d *MeshData) TriangleCount() int {
	return len(d.Faces) / 3
}

// LoadOBJ loads a Wavefront OBJ model from a local path or URL
func LoadOBJ(location string) (*MeshData, error) {
	res, err := OpenResource(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer res.Close()

	return ReadOBJ(res)
}

// LoadMeshData reads an OBJ or PLY model, chosen by file extension
func LoadMeshData(location string) (*MeshData, error) {
	if strings.EqualFold(path.Ext(location), ".ply") {
		return LoadPLY(location)
	}
	return LoadOBJ(location)
}

// LoadMesh loads an OBJ or PLY model and builds a mesh with a single material
func LoadMesh(location string, mat material.Material) (*geometry.TriangleMesh, error) {
	data, err := LoadMeshData(location)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	mesh, err := geometry.NewTriangleMesh(data.Vertices, data.Faces, mat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	logger.Infof("built BVH for %q: %d triangles, %d nodes in %v",
		location, mesh.TriangleCount(), mesh.NodeCount(), time.Since(start))
	return mesh, nil
}

// ReadOBJ parses vertex, texture, normal and face records. Polygons are
// fan-triangulated; other record types are ignored.
func ReadOBJ(res *Resource) (*MeshData, error) {
	start := time.Now()
	data := &MeshData{}

	lineNum := 0
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return nil, lineError(res, lineNum, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return nil, lineError(res, lineNum, err)
			}
			data.Normals = append(data.Normals, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return nil, lineError(res, lineNum, err)
			}
			data.TexCoords = append(data.TexCoords, v)
		case "f":
			if err := data.parseFace(lineTokens); err != nil {
				return nil, lineError(res, lineNum, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}

	if len(data.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", res.Path(), ErrEmptyMesh)
	}

	logger.Noticef("parsed %q: %d vertices, %d triangles in %v",
		res.Path(), len(data.Vertices), data.TriangleCount(), time.Since(start))
	return data, nil
}

func lineError(res *Resource, line int, err error) error {
	return fmt.Errorf("[%s: %d] %w", res.Path(), line, err)
}

// parseFace reads "f" arguments in any of the v, v/vt, v//vn or v/vt/vn forms
func (d *MeshData) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("%w; got %d", ErrUnsupportedFace, len(lineTokens)-1)
	}

	indices := make([]int, len(lineTokens)-1)
	for arg, token := range lineTokens[1:] {
		vTokens := strings.Split(token, "/")
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		index, err := selectFaceCoordIndex(vTokens[0], len(d.Vertices))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %w", arg, err)
		}
		indices[arg] = index
	}

	// Fan triangulation around the first vertex
	for i := 1; i+1 < len(indices); i++ {
		d.Faces = append(d.Faces, indices[0], indices[i], indices[i+1])
	}
	return nil
}

// selectFaceCoordIndex resolves a 1-based or negative (relative) index
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		return -1, err
	}

	offset := index - 1
	if index < 0 {
		offset = coordListLen + index
	}
	if index == 0 || offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index %d out of bounds (%d coords)", index, coordListLen)
	}
	return offset, nil
}

func parseVec3(lineTokens []string) (core.Vec3, error) {
	if len(lineTokens) < 4 {
		return core.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var coords [3]float64
	for i := range coords {
		coord, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return core.Vec3{}, err
		}
		coords[i] = coord
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

func parseVec2(lineTokens []string) (core.Vec2, error) {
	if len(lineTokens) < 3 {
		return core.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	u, err := strconv.ParseFloat(lineTokens[1], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	v, err := strconv.ParseFloat(lineTokens[2], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.NewVec2(u, v), nil
}
