// Package render is a software rasterizer that turns a mesh and a camera
// snapshot into an RGBA image plus a per-pixel face index.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/glance/pkg/models"
	"github.com/taigrr/glance/pkg/viewport"
)

// ErrNoMesh is returned when rendering before a mesh is set.
var ErrNoMesh = errors.New("no mesh loaded")

// minW rejects triangles with a vertex at or behind the eye plane.
const minW = 1e-6

// Renderer rasterizes a mesh with per-pixel diffuse and spherical-gaussian
// specular lighting. It is driven from a single goroutine.
type Renderer struct {
	Background             Color
	Ambient                float64
	DisableBackfaceCulling bool // If true, render both sides of triangles

	mesh     *models.Mesh
	textures []*Texture // Per material, nil when untextured
	bounds   AABB
	clip     []mgl64.Vec4 // Per-vertex clip positions for the current frame
	fb       *Framebuffer
	stats    Stats
}

// Stats counts the work done by the last frame.
type Stats struct {
	Triangles int // Faces submitted
	Culled    int // Back-facing or behind the eye
	Drawn     int // Faces that reached the rasterizer
	Offscreen bool
}

// New creates a renderer for mesh, which may be nil until SetMesh.
func New(mesh *models.Mesh) *Renderer {
	r := &Renderer{
		Background: RGB(24, 24, 32),
		Ambient:    0.15,
	}
	r.SetMesh(mesh)
	return r
}

// SetMesh replaces the mesh and rebuilds the texture cache.
func (r *Renderer) SetMesh(mesh *models.Mesh) {
	r.mesh = mesh
	r.textures = nil
	r.clip = nil
	if mesh == nil {
		return
	}
	r.textures = make([]*Texture, len(mesh.Materials))
	for i, m := range mesh.Materials {
		r.textures[i] = TextureFromImage(m.Texture)
	}
	r.bounds = AABB{Min: mesh.BoundsMin, Max: mesh.BoundsMax}
	r.clip = make([]mgl64.Vec4, len(mesh.Vertices))
}

// Mesh returns the current mesh.
func (r *Renderer) Mesh() *models.Mesh { return r.mesh }

// Stats returns counters for the last rendered frame.
func (r *Renderer) Stats() Stats { return r.stats }

// Render draws one frame. It satisfies viewport.RenderFunc.
func (r *Renderer) Render(f viewport.Frame) (*viewport.Result, error) {
	if r.mesh == nil {
		return nil, ErrNoMesh
	}
	if f.Width < 1 || f.Height < 1 {
		return nil, fmt.Errorf("invalid frame size %dx%d", f.Width, f.Height)
	}

	// A fresh framebuffer per frame keeps the previously presented result
	// intact for face picking.
	r.fb = NewFramebuffer(f.Width, f.Height)
	r.fb.Clear(r.Background)
	r.stats = Stats{Triangles: len(r.mesh.Faces)}

	viewProj := f.Camera.ViewProjection()
	if !NewFrustum(viewProj).Intersects(r.bounds) {
		r.stats.Offscreen = true
		return r.result(), nil
	}

	for i, v := range r.mesh.Vertices {
		r.clip[i] = viewProj.Mul4x1(v.Position.Vec4(1))
	}

	shading := ShadingFromParams(f.Params, f.Quality, r.Ambient)
	eye := f.Camera.Eye
	for fi, face := range r.mesh.Faces {
		sv, ok := r.project(face)
		if !ok {
			r.stats.Culled++
			continue
		}
		if shading.Wireframe {
			r.drawWireframe(sv, int32(fi), r.mesh.Material(fi))
			r.stats.Drawn++
			continue
		}
		r.drawTriangle(sv, face, int32(fi), shading, eye)
		r.stats.Drawn++
	}
	return r.result(), nil
}

func (r *Renderer) result() *viewport.Result {
	return &viewport.Result{Image: r.fb.Image, FaceIndex: r.fb.Face}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates, Y down
	Z    float64 // NDC depth
	InvW float64 // 1/w for perspective-correct interpolation
}

// project transforms a face to screen space and applies back-face culling.
func (r *Renderer) project(face models.Face) ([3]screenVertex, bool) {
	var sv [3]screenVertex
	w, h := float64(r.fb.Width), float64(r.fb.Height)
	for k, vi := range face.V {
		c := r.clip[vi]
		if c.W() <= minW {
			return sv, false
		}
		inv := 1 / c.W()
		sv[k] = screenVertex{
			X:    (c.X()*inv + 1) * 0.5 * w,
			Y:    (1 - c.Y()*inv) * 0.5 * h, // Y flipped
			Z:    c.Z() * inv,
			InvW: inv,
		}
	}
	// Counter-clockwise faces turn clockwise once Y points down.
	if !r.DisableBackfaceCulling && signedArea(sv) >= 0 {
		return sv, false
	}
	return sv, true
}

// signedArea is twice the screen-space area; negative for front faces.
func signedArea(sv [3]screenVertex) float64 {
	return (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
}

// edgeCoeffs returns A, B, C for edge(x,y) = A*x + B*y + C, the signed area
// of (p0, p1, (x, y)).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	a = y0 - y1
	b = x1 - x0
	c = x0*y1 - x1*y0
	return
}

// drawTriangle fills a projected face using edge functions with incremental
// updates and perspective-correct attribute interpolation.
func (r *Renderer) drawTriangle(sv [3]screenVertex, face models.Face, id int32, s Shading, eye mgl64.Vec3) {
	area := signedArea(sv)
	if area == 0 {
		return
	}
	inv := 1 / area

	minX := max(0, int(math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(r.fb.Width-1, int(math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(r.fb.Height-1, int(math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric weight of vertex k is the edge opposite it over the area.
	a0, b0, c0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	a1, b1, c1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	a2, b2, c2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	verts := [3]models.Vertex{
		r.mesh.Vertices[face.V[0]],
		r.mesh.Vertices[face.V[1]],
		r.mesh.Vertices[face.V[2]],
	}
	mat := models.DefaultMaterial()
	var tex *Texture
	if m := face.Material; m >= 0 && m < len(r.mesh.Materials) {
		mat = r.mesh.Materials[m]
		if s.Textured {
			tex = r.textures[m]
		}
	}
	base := FromFloat(mat.BaseColor)
	s = s.ForMaterial(mat)

	startX := float64(minX) + 0.5
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		e0 := a0*startX + b0*py + c0
		e1 := a1*startX + b1*py + c1
		e2 := a2*startX + b2*py + c2

		for x := minX; x <= maxX; x, e0, e1, e2 = x+1, e0+a0, e1+a1, e2+a2 {
			w0, w1, w2 := e0*inv, e1*inv, e2*inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*sv[0].Z + w1*sv[1].Z + w2*sv[2].Z
			if z < -1 || z > 1 {
				continue
			}
			i := y*r.fb.Width + x
			if z >= r.fb.Depth[i] {
				continue
			}

			// Perspective-correct weights
			p0, p1, p2 := w0*sv[0].InvW, w1*sv[1].InvW, w2*sv[2].InvW
			sum := p0 + p1 + p2
			if sum == 0 {
				continue
			}
			p0, p1, p2 = p0/sum, p1/sum, p2/sum

			pos := lerp3(verts[0].Position, verts[1].Position, verts[2].Position, p0, p1, p2)
			n := lerp3(verts[0].Normal, verts[1].Normal, verts[2].Normal, p0, p1, p2)
			// The negated test also catches NaN normals.
			if l := n.Len(); !(l >= 1e-9) {
				n = r.mesh.FaceNormal(int(id))
			} else {
				n = n.Mul(1 / l)
			}
			view := eye.Sub(pos).Normalize()
			if r.DisableBackfaceCulling && n.Dot(view) < 0 {
				n = n.Mul(-1)
			}

			albedo := base
			if tex != nil {
				u := p0*verts[0].UV.X() + p1*verts[1].UV.X() + p2*verts[2].UV.X()
				v := p0*verts[0].UV.Y() + p1*verts[1].UV.Y() + p2*verts[2].UV.Y()
				albedo = ModulateColor(tex.Sample(u, v, s.Filter), base)
			}

			r.fb.plot(x, y, z, id, s.Shade(albedo, n, view))
		}
	}
}

func lerp3(a, b, c mgl64.Vec3, wa, wb, wc float64) mgl64.Vec3 {
	return mgl64.Vec3{
		a[0]*wa + b[0]*wb + c[0]*wc,
		a[1]*wa + b[1]*wb + c[1]*wc,
		a[2]*wa + b[2]*wb + c[2]*wc,
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
