package render

import "github.com/go-gl/mathgl/mgl64"

// Plane is Ax + By + Cz + D = 0 with (A, B, C) the normal.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

func (p *Plane) normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Mul(1 / l)
	p.D /= l
}

// Distance returns the signed distance from the plane to a point, positive
// on the side the normal points to.
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum extracts frustum planes from a view-projection matrix
// (Gribb/Hartmann).
func NewFrustum(m mgl64.Mat4) Frustum {
	var f Frustum
	row := func(i int) mgl64.Vec4 { return m.Row(i) }
	r3 := row(3)
	for i := range 3 {
		ri := row(i)
		f.Planes[2*i] = planeFrom(r3.Add(ri))
		f.Planes[2*i+1] = planeFrom(r3.Sub(ri))
	}
	for i := range f.Planes {
		f.Planes[i].normalize()
	}
	return f
}

func planeFrom(v mgl64.Vec4) Plane {
	return Plane{Normal: v.Vec3(), D: v.W()}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Intersects reports whether any part of box may be inside the frustum.
// Uses the positive vertex of each plane for rejection.
func (f Frustum) Intersects(box AABB) bool {
	for _, p := range f.Planes {
		var pv mgl64.Vec3
		for k := range 3 {
			if p.Normal[k] >= 0 {
				pv[k] = box.Max[k]
			} else {
				pv[k] = box.Min[k]
			}
		}
		if p.Distance(pv) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}
