package models

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeFaceOBJ = `# one face of a cube
mtllib face.mtl
o face
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 2
usemtl brick
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl
f -4 -2 -1
`

const faceMTL = `newmtl brick
Kd 0.5 0.25 0
d 0.5
Ns 250
map_Kd -s 1 1 1 brick.png
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadOBJWithMaterials(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "face.obj", cubeFaceOBJ)
	writeFile(t, dir, "face.mtl", faceMTL)
	writePNG(t, filepath.Join(dir, "brick.png"))

	mesh, err := Load(path, nil)
	require.NoError(t, err)

	// Quad fans into two triangles, plus one more face by negative index.
	require.Equal(t, 3, mesh.TriangleCount())
	assert.Equal(t, [3]int{0, 1, 2}, mesh.Faces[0].V)
	assert.Equal(t, [3]int{0, 2, 3}, mesh.Faces[1].V)

	// "f -4 -2 -1" has no uv/normal, so it adds new vertices.
	assert.Equal(t, 4+3, mesh.VertexCount())
	assert.Equal(t, -1, mesh.Faces[2].Material)
	assert.Equal(t, "default", mesh.Material(2).Name)

	mat := mesh.Material(0)
	assert.Equal(t, "brick", mat.Name)
	assert.Equal(t, [4]float64{0.5, 0.25, 0, 0.5}, mat.BaseColor)
	assert.InDelta(t, 0.75, mat.Roughness, 1e-12)
	require.NotNil(t, mat.Texture)
	assert.Equal(t, 2, mat.Texture.Bounds().Dx())

	assert.InDelta(t, 1.0, mesh.Vertices[0].Normal.Len(), 1e-12, "normals are unit length")
	assert.Equal(t, 1.0, mesh.Vertices[2].UV.Y())
}

func TestLoadOBJMissingMTLFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "face.obj", cubeFaceOBJ)

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)
	require.Equal(t, 1, mesh.MaterialCount())
	assert.Equal(t, "brick", mesh.Materials[0].Name)
	assert.Nil(t, mesh.Materials[0].Texture)
}

func TestLoadOBJGeneratesNormals(t *testing.T) {
	mesh, err := NewOBJLoader().parse(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), "tri", ".")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mesh.Vertices[0].Normal.Z(), 1e-12)
}

func TestLoadOBJZeroNormal(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 0\nf 1//1 2//1 3//1\n"
	mesh, err := NewOBJLoader().parse(strings.NewReader(src), "tri", ".")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{}, mesh.Vertices[0].Normal)
}

func TestLoadOBJErrors(t *testing.T) {
	cases := map[string]string{
		"no faces":         "v 0 0 0\n",
		"index past end":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"zero index":       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"short face":       "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad vertex":       "v 0 zero 0\n",
		"missing uv index": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewOBJLoader().parse(strings.NewReader(src), name, ".")
			assert.Error(t, err)
		})
	}
}

func TestLoadOBJLogsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "face.obj", cubeFaceOBJ)

	var buf bytes.Buffer
	l := NewOBJLoader()
	l.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	_, err := l.Load(path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "material library not found")

	// The library exists but brick.png does not.
	writeFile(t, dir, "face.mtl", faceMTL)
	buf.Reset()
	mesh, err := l.Load(path)
	require.NoError(t, err)
	assert.Nil(t, mesh.Materials[0].Texture)
	assert.Contains(t, buf.String(), "texture not loaded")
	assert.Contains(t, buf.String(), "material=brick")
}
