package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene that can be rendered by name
type SceneInfo struct {
	ID          string `json:"id"`          // Name used on the command line and in requests
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"`
}

type builtinScene struct {
	info SceneInfo
	new  func() *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", DisplayName: "Mirror Sphere", Description: "Metal sphere on a diffuse ground", Type: "builtin"}, NewDefaultScene},
	{SceneInfo{ID: "lambertian", DisplayName: "Diffuse Sphere", Description: "Diffuse sphere on a diffuse ground", Type: "builtin"}, NewLambertianScene},
	{SceneInfo{ID: "triangles", DisplayName: "Pyramid", Description: "Triangle pyramid between two spheres", Type: "builtin"}, NewTriangleScene},
}

// ListBuiltinScenes returns the scenes compiled into the binary
func ListBuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, s := range builtinScenes {
		infos[i] = s.info
	}
	return infos
}

// NewBuiltinScene creates a built-in scene by ID
func NewBuiltinScene(id string) (*Scene, error) {
	for _, s := range builtinScenes {
		if s.info.ID == id {
			return s.new(), nil
		}
	}
	return nil, fmt.Errorf("unknown scene: %q", id)
}

// Resolve returns a built-in scene by ID, or loads a scene file when name ends in .json
func Resolve(name string) (*Scene, error) {
	if strings.HasSuffix(name, ".json") {
		return Load(name)
	}
	return NewBuiltinScene(name)
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		scenes = append(scenes, SceneInfo{
			ID:          path,
			DisplayName: name,
			Type:        "file",
			FilePath:    path,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}
