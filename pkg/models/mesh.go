// Package models loads triangle meshes and their materials for glance.
package models

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is an indexed triangle mesh with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin mgl64.Vec3
	BoundsMax mgl64.Vec3
}

// Vertex holds all vertex attributes.
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	UV       mgl64.Vec2 // V=0 at the bottom of the texture
}

// Face is a counter-clockwise triangle.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of PBR and MTL material data the renderer uses.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
	Texture   image.Image
}

// DefaultMaterial is used for faces without a material.
func DefaultMaterial() Material {
	return Material{
		Name:      "default",
		BaseColor: [4]float64{0.8, 0.8, 0.8, 1},
		Roughness: 0.5,
	}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = mgl64.Vec3{}, mgl64.Vec3{}
		return
	}
	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = math.Min(lo[i], v.Position[i])
			hi[i] = math.Max(hi[i], v.Position[i])
		}
	}
	m.BoundsMin, m.BoundsMax = lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() mgl64.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Mul(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() mgl64.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// HasNormals reports whether any vertex carries a normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// CalculateSmoothNormals replaces vertex normals with area-weighted averages
// of the adjacent face normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl64.Vec3{}
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f, false)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = safeNormalize(m.Vertices[i].Normal)
	}
}

// safeNormalize returns the unit vector of v, or the zero vector when v has
// no length. Zero normals tell the renderer to fall back to the face normal.
func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// FaceNormal returns the unit normal of face i.
func (m *Mesh) FaceNormal(i int) mgl64.Vec3 {
	return m.faceNormal(m.Faces[i], true)
}

func (m *Mesh) faceNormal(f Face, unit bool) mgl64.Vec3 {
	p0 := m.Vertices[f.V[0]].Position
	n := m.Vertices[f.V[1]].Position.Sub(p0).Cross(m.Vertices[f.V[2]].Position.Sub(p0))
	if unit {
		return safeNormalize(n)
	}
	return n
}

// Transform applies mat to positions and its upper 3x3 to normals.
func (m *Mesh) Transform(mat mgl64.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mgl64.TransformCoordinate(v.Position, mat)
		v.Normal = safeNormalize(mgl64.TransformNormal(v.Normal, mat))
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales its largest
// dimension to size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := math.Max(dims.X(), math.Max(dims.Y(), dims.Z()))
	if maxDim <= 0 {
		return
	}
	s := size / maxDim
	c := m.Center()
	m.Transform(mgl64.Scale3D(s, s, s).Mul4(mgl64.Translate3D(-c.X(), -c.Y(), -c.Z())))
}

// Material returns the material for face i, or DefaultMaterial when the face
// has none.
func (m *Mesh) Material(face int) Material {
	mi := m.Faces[face].Material
	if mi < 0 || mi >= len(m.Materials) {
		return DefaultMaterial()
	}
	return m.Materials[mi]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int { return len(m.Materials) }
