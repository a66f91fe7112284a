package scene

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("scene")

// ErrUnknownScene is returned by Create for an id with no registered builder
var ErrUnknownScene = errors.New("unknown scene")

// Options carries everything a scene builder may read from the outside world
type Options struct {
	AssetDir       string        // Directory searched for textures and models
	MeshPath       string        // Explicit OBJ or PLY file for the mesh scene
	EarthTexture   string        // Explicit image for the earth scene
	BackgroundPath string        // Optional environment map for the checkers scene
	Seed           int64         // Seed for scene layout and procedural textures
	Camera         camera.Config // Non-zero fields override the scene's camera
}

func (o Options) random() *rand.Rand {
	return rand.New(rand.NewSource(o.Seed))
}

// Builder constructs a scene from options
type Builder func(opts Options) (*Scene, error)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`               // "builtin" or "model"
	FilePath    string `json:"filePath,omitempty"` // Model file (model type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtInGroup = "Built-in Scenes"
	modelGroup   = "Models"
	modelPrefix  = "model:"
)

type builtIn struct {
	info  SceneInfo
	build Builder
}

var builtIns = []builtIn{
	{SceneInfo{ID: "spheres", Name: "Random Spheres", Description: "Field of small random spheres around three large ones"}, NewSpheresScene},
	{SceneInfo{ID: "bouncing", Name: "Bouncing Spheres", Description: "Sphere field with motion blur over a checkered ground"}, NewBouncingScene},
	{SceneInfo{ID: "checkers", Name: "Checkered Metal", Description: "Bouncing spheres over a checkered metal floor"}, NewCheckersScene},
	{SceneInfo{ID: "defocus", Name: "Defocus Blur", Description: "Glass bubble, metal and diffuse spheres with a wide aperture"}, NewDefocusScene},
	{SceneInfo{ID: "fuzzed-metal", Name: "Fuzzed Metal", Description: "Diffuse sphere between two metal spheres of different roughness"}, NewFuzzedMetalScene},
	{SceneInfo{ID: "perlin", Name: "Perlin Spheres", Description: "Marble noise texture on a sphere and ground"}, NewPerlinScene},
	{SceneInfo{ID: "earth", Name: "Earth", Description: "Image textured globe"}, NewEarthScene},
	{SceneInfo{ID: "quads", Name: "Quads", Description: "Five coloured quads"}, NewQuadsScene},
	{SceneInfo{ID: "simple-light", Name: "Simple Light", Description: "Marble spheres lit by a panel and a lamp"}, NewSimpleLightScene},
	{SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Cornell box with a glass sphere and a rotated block"}, NewCornellScene},
	{SceneInfo{ID: "cornell-smoke", Name: "Cornell Smoke", Description: "Cornell box with two blocks of smoke"}, NewCornellSmokeScene},
	{SceneInfo{ID: "mesh", Name: "Mesh", Description: "OBJ or PLY model in a Cornell box"}, NewMeshScene},
}

// Create builds the scene registered under id.
// Ids of the form "model:<name>" load <name>.obj or <name>.ply from the
// asset directory.
func Create(id string, opts Options) (*Scene, error) {
	if name, ok := strings.CutPrefix(id, modelPrefix); ok {
		opts.MeshPath = modelPath(opts.AssetDir, name)
		return NewMeshScene(opts)
	}
	for _, b := range builtIns {
		if b.info.ID == id {
			logger.Debugf("Building scene %s", id)
			return b.build(opts)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// BuiltInScenes returns the registered scenes in registration order
func BuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtIns))
	for i, b := range builtIns {
		scenes[i] = b.info
		scenes[i].Group = builtInGroup
		scenes[i].Type = "builtin"
	}
	return scenes
}

var modelExtensions = []string{".obj", ".ply"}

// modelPath prefers an existing <name>.obj, then <name>.ply
func modelPath(assetDir, name string) string {
	for _, ext := range modelExtensions {
		candidate := filepath.Join(assetDir, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(assetDir, name+modelExtensions[0])
}

// ListModels scans assetDir for OBJ and PLY files and returns them as mesh scenes
func ListModels(assetDir string) ([]SceneInfo, error) {
	if assetDir == "" {
		return nil, nil
	}
	var files []string
	for _, ext := range modelExtensions {
		matches, err := filepath.Glob(filepath.Join(assetDir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset directory: %w", err)
		}
		files = append(files, matches...)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseModelMetadata(filePath)
		if err != nil {
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseModelMetadata reads "Scene:", "Description:" and "Group:" entries
// from the leading "#" comments of an OBJ file or the "comment" lines of a
// PLY header
func ParseModelMetadata(filePath string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:       modelPrefix + base,
		Name:     titleCase(base),
		Group:    modelGroup,
		Type:     "model",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	isPLY := strings.EqualFold(filepath.Ext(filePath), ".ply")
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var content string
		var ok bool
		if isPLY {
			if line == "end_header" {
				break
			}
			content, ok = strings.CutPrefix(line, "comment ")
			if !ok {
				continue
			}
		} else if content, ok = strings.CutPrefix(line, "#"); !ok {
			break
		}
		key, value, found := strings.Cut(content, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Scene":
			info.Name = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		}
	}

	return info, scanner.Err()
}

// ListAllScenes returns built-in scenes followed by discovered models, grouped by category
func ListAllScenes(assetDir string) (ScenesResponse, error) {
	var response ScenesResponse

	models, err := ListModels(assetDir)
	if err != nil {
		return response, err
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range models {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: BuiltInScenes()})

	var groupNames []string
	for name := range groupMap {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "stanford-bunny" -> "Stanford Bunny"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
