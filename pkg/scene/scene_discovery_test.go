package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const tetrahedronOBJ = `# Scene: Little Tetrahedron
# Description: Four faces
# Group: Test Models

v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

const tetrahedronPLY = `ply
format ascii 1.0
comment Scene: PLY Tetrahedron
comment Group: Test Models
element vertex 4
property float x
property float y
property float z
element face 4
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
0 0 1
3 0 2 1
3 0 1 3
3 0 3 2
3 1 2 3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"stanford-bunny", "Stanford Bunny"},
		{"dragon_gold", "Dragon Gold"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseModelMetadata(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name:    "tetra.obj",
			content: tetrahedronOBJ,
			expected: SceneInfo{
				ID:          "model:tetra",
				Name:        "Little Tetrahedron",
				Description: "Four faces",
				Group:       "Test Models",
				Type:        "model",
			},
		},
		{
			name:    "tetra-ply.ply",
			content: tetrahedronPLY,
			expected: SceneInfo{
				ID:    "model:tetra-ply",
				Name:  "PLY Tetrahedron",
				Group: "Test Models",
				Type:  "model",
			},
		},
		{
			name:    "plain_cube.obj",
			content: "v 0 0 0\n# Scene: Too Late\n",
			expected: SceneInfo{
				ID:    "model:plain_cube",
				Name:  "Plain Cube",
				Group: modelGroup,
				Type:  "model",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, tc.name, tc.content)
			info, err := ParseModelMetadata(path)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tc.expected.FilePath = path
			if info != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, info)
			}
		})
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tetra.obj", tetrahedronOBJ)
	writeFile(t, dir, "tetra-ply.ply", tetrahedronPLY)
	writeFile(t, dir, "notes.txt", "not a model")

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and model groups, got %d groups", len(response.Groups))
	}
	if response.Groups[0].Name != builtInGroup {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	if len(response.Groups[0].Scenes) != len(builtIns) {
		t.Errorf("Expected %d built-in scenes, got %d", len(builtIns), len(response.Groups[0].Scenes))
	}
	models := response.Groups[1]
	// Sorted by display name
	if models.Name != "Test Models" || len(models.Scenes) != 2 ||
		models.Scenes[0].ID != "model:tetra" || models.Scenes[1].ID != "model:tetra-ply" {
		t.Errorf("Unexpected model group %+v", models)
	}
}

func TestListAllScenes_NoAssetDir(t *testing.T) {
	response, err := ListAllScenes("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(response.Groups) != 1 {
		t.Errorf("Expected only built-in scenes, got %d groups", len(response.Groups))
	}
}

func TestCreate_UnknownScene(t *testing.T) {
	_, err := Create("no-such-scene", Options{})
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestCreate_Model(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tetra.obj", tetrahedronOBJ)

	s, err := Create("model:tetra", Options{AssetDir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Light == nil {
		t.Error("Expected the mesh scene to sample its ceiling light")
	}
	// Five walls, the light and the four-triangle model
	if got := s.PrimitiveCount(); got != 10 {
		t.Errorf("Expected 10 primitives, got %d", got)
	}

	writeFile(t, dir, "pyramid.ply", tetrahedronPLY)
	s, err = Create("model:pyramid", Options{AssetDir: dir})
	if err != nil {
		t.Fatalf("Unexpected error for a PLY model: %v", err)
	}
	if got := s.PrimitiveCount(); got != 10 {
		t.Errorf("Expected 10 primitives from the PLY model, got %d", got)
	}

	if _, err := Create("model:missing", Options{AssetDir: dir}); err == nil {
		t.Error("Expected an error for a model that does not exist")
	}
}
