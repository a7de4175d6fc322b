package models

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleMesh() *Mesh {
	m := NewMesh("tri")
	m.Vertices = []Vertex{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{2, 0, 0}},
		{Position: mgl64.Vec3{0, 4, 0}},
	}
	m.Faces = []Face{{V: [3]int{0, 1, 2}, Material: -1}}
	m.CalculateBounds()
	return m
}

func TestMeshBounds(t *testing.T) {
	m := triangleMesh()
	assert.Equal(t, mgl64.Vec3{2, 4, 0}, m.Size())
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, m.Center())

	empty := NewMesh("empty")
	empty.CalculateBounds()
	assert.Equal(t, mgl64.Vec3{}, empty.Size())
}

func TestMeshNormals(t *testing.T) {
	m := triangleMesh()
	assert.False(t, m.HasNormals())
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, m.FaceNormal(0))

	m.CalculateSmoothNormals()
	require.True(t, m.HasNormals())
	for _, v := range m.Vertices {
		assert.InDelta(t, 1.0, v.Normal.Z(), 1e-12)
	}
}

func TestMeshNormalize(t *testing.T) {
	m := triangleMesh()
	m.CalculateSmoothNormals()
	m.Normalize(2)

	assert.InDelta(t, 2.0, m.Size().Y(), 1e-12)
	assert.InDelta(t, 1.0, m.Size().X(), 1e-12)
	assert.InDelta(t, 0.0, m.Center().Len(), 1e-12)
	assert.InDelta(t, 1.0, m.Vertices[0].Normal.Len(), 1e-12)
}

func TestMeshMaterialLookup(t *testing.T) {
	m := triangleMesh()
	m.Materials = []Material{{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}}}
	m.Faces = append(m.Faces, Face{V: [3]int{0, 1, 2}, Material: 0}, Face{V: [3]int{0, 1, 2}, Material: 7})

	assert.Equal(t, "default", m.Material(0).Name)
	assert.Equal(t, "red", m.Material(1).Name)
	assert.Equal(t, "default", m.Material(2).Name, "out of range falls back")
}

func TestMeshZeroNormalsStayZero(t *testing.T) {
	m := triangleMesh()
	m.Vertices[1].Normal = mgl64.Vec3{0, 0, 3}
	m.Normalize(2)

	for i, v := range m.Vertices {
		for k := range 3 {
			assert.False(t, math.IsNaN(v.Normal[k]), "vertex %d normal %v", i, v.Normal)
		}
	}
	assert.Equal(t, mgl64.Vec3{}, m.Vertices[0].Normal)
	assert.InDelta(t, 1.0, m.Vertices[1].Normal.Len(), 1e-12)

	degenerate := NewMesh("line")
	degenerate.Vertices = []Vertex{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{1, 0, 0}},
		{Position: mgl64.Vec3{2, 0, 0}},
	}
	degenerate.Faces = []Face{{V: [3]int{0, 1, 2}, Material: -1}}
	degenerate.CalculateSmoothNormals()
	assert.Equal(t, mgl64.Vec3{}, degenerate.FaceNormal(0))
	assert.Equal(t, mgl64.Vec3{}, degenerate.Vertices[0].Normal)
}

func TestDecodeImageRejectsNonImages(t *testing.T) {
	_, err := DecodeImage([]byte("%PDF-1.4 not a texture"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = LoadImage("/nonexistent/tex.png")
	assert.Error(t, err)
}
