package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// OBJLoader loads Wavefront OBJ files and their MTL material libraries.
type OBJLoader struct {
	CalculateNormals bool // Generate smooth normals when the file has none
	LoadTextures     bool // Decode map_Kd textures

	Logger *slog.Logger // Receives missing libraries and textures; may be nil
}

// NewOBJLoader creates a loader with normals and textures enabled.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		CalculateNormals: true,
		LoadTextures:     true,
	}
}

// LoadOBJ loads an OBJ file with default options.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// Load parses the OBJ at path. Material libraries and textures are resolved
// relative to the OBJ file.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := l.parse(f, filepath.Base(path), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// objKey identifies a unique position/uv/normal combination.
type objKey struct{ p, t, n int }

type objParser struct {
	loader *OBJLoader
	dir    string
	mesh   *Mesh

	positions []mgl64.Vec3
	uvs       []mgl64.Vec2
	normals   []mgl64.Vec3

	seen      map[objKey]int
	materials map[string]int
	current   int
}

func (l *OBJLoader) parse(r io.Reader, name, dir string) (*Mesh, error) {
	p := &objParser{
		loader:    l,
		dir:       dir,
		mesh:      NewMesh(name),
		seen:      make(map[objKey]int),
		materials: make(map[string]int),
		current:   -1,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := p.directive(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(p.mesh.Faces) == 0 {
		return nil, fmt.Errorf("no faces")
	}

	if l.CalculateNormals && !p.mesh.HasNormals() {
		p.mesh.CalculateSmoothNormals()
	}
	p.mesh.CalculateBounds()
	return p.mesh, nil
}

func (p *objParser) directive(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.positions = append(p.positions, mgl64.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		p.uvs = append(p.uvs, mgl64.Vec2{v[0], v[1]})
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.normals = append(p.normals, safeNormalize(mgl64.Vec3{v[0], v[1], v[2]}))
	case "f":
		return p.face(args)
	case "mtllib":
		for _, lib := range args {
			// A missing library leaves faces on default materials.
			err := p.loadMTL(filepath.Join(p.dir, lib))
			if errors.Is(err, fs.ErrNotExist) {
				logger(p.loader.Logger).Warn("material library not found", "path", lib)
				continue
			}
			if err != nil {
				return err
			}
		}
	case "usemtl":
		if len(args) == 0 {
			p.current = -1
			return nil
		}
		idx, ok := p.materials[args[0]]
		if !ok {
			// Unknown materials still get their own slot so faces stay grouped.
			mat := DefaultMaterial()
			mat.Name = args[0]
			idx = p.addMaterial(mat)
		}
		p.current = idx
	}
	// o, g, s and other directives carry nothing the viewer uses.
	return nil
}

func (p *objParser) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs 3 vertices, got %d", len(args))
	}
	idx := make([]int, len(args))
	for i, a := range args {
		v, err := p.vertex(a)
		if err != nil {
			return fmt.Errorf("face: %w", err)
		}
		idx[i] = v
	}
	// Fan triangulation of convex polygons.
	for i := 1; i+1 < len(idx); i++ {
		p.mesh.Faces = append(p.mesh.Faces, Face{
			V:        [3]int{idx[0], idx[i], idx[i+1]},
			Material: p.current,
		})
	}
	return nil
}

// vertex resolves a "p/t/n" reference to a mesh vertex, reusing identical
// combinations.
func (p *objParser) vertex(ref string) (int, error) {
	parts := strings.Split(ref, "/")
	key := objKey{-1, -1, -1}

	var err error
	if key.p, err = resolveIndex(parts[0], len(p.positions)); err != nil {
		return 0, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if key.t, err = resolveIndex(parts[1], len(p.uvs)); err != nil {
			return 0, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.n, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return 0, err
		}
	}

	if vi, ok := p.seen[key]; ok {
		return vi, nil
	}
	v := Vertex{Position: p.positions[key.p]}
	if key.t >= 0 {
		v.UV = p.uvs[key.t]
	}
	if key.n >= 0 {
		v.Normal = p.normals[key.n]
	}
	vi := len(p.mesh.Vertices)
	p.mesh.Vertices = append(p.mesh.Vertices, v)
	p.seen[key] = vi
	return vi, nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (have %d)", i, n)
}

func (p *objParser) addMaterial(mat Material) int {
	idx := len(p.mesh.Materials)
	p.mesh.Materials = append(p.mesh.Materials, mat)
	p.materials[mat.Name] = idx
	return idx
}

func (p *objParser) loadMTL(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mtl: %w", err)
	}
	defer f.Close()

	var cur *Material
	flush := func() {
		if cur != nil {
			if idx, ok := p.materials[cur.Name]; ok {
				p.mesh.Materials[idx] = *cur
			} else {
				p.addMaterial(*cur)
			}
		}
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		args := fields[1:]
		switch fields[0] {
		case "newmtl":
			flush()
			mat := DefaultMaterial()
			if len(args) > 0 {
				mat.Name = args[0]
			}
			cur = &mat
		case "Kd":
			if cur == nil {
				continue
			}
			if v, err := parseFloats(args, 3); err == nil {
				cur.BaseColor = [4]float64{v[0], v[1], v[2], cur.BaseColor[3]}
			}
		case "d":
			if cur == nil {
				continue
			}
			if v, err := parseFloats(args, 1); err == nil {
				cur.BaseColor[3] = v[0]
			}
		case "Ns":
			if cur == nil {
				continue
			}
			// Phong exponent 0..1000 mapped onto roughness.
			if v, err := parseFloats(args, 1); err == nil {
				cur.Roughness = 1 - min(max(v[0], 0), 1000)/1000
			}
		case "map_Kd":
			if cur == nil || len(args) == 0 || !p.loader.LoadTextures {
				continue
			}
			// Options such as -s precede the file name, which comes last.
			img, err := LoadImage(filepath.Join(p.dir, args[len(args)-1]))
			if err != nil {
				logger(p.loader.Logger).Warn("texture not loaded", "material", cur.Name, "err", err)
				continue
			}
			cur.Texture = img
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read mtl: %w", err)
	}
	return nil
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("need %d values, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}
