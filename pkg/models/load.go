package models

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Load reads a mesh file, choosing the loader by extension. Problems that
// do not stop the load, such as a texture that fails to decode, are logged
// to logger, which may be nil.
func Load(path string, logger *slog.Logger) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		l := NewGLTFLoader()
		l.Logger = logger
		return l.Load(path)
	case ".obj":
		l := NewOBJLoader()
		l.Logger = logger
		return l.Load(path)
	default:
		return nil, fmt.Errorf("%s: unsupported model format %q", path, ext)
	}
}
