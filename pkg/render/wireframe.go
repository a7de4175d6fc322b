package render

import (
	"github.com/taigrr/glance/pkg/models"
)

// drawWireframe outlines a projected face in its material color. Lines are
// not depth tested, so hidden edges of front faces stay visible.
func (r *Renderer) drawWireframe(sv [3]screenVertex, id int32, mat models.Material) {
	c := FromFloat(mat.BaseColor)
	c.A = 255
	for k := range 3 {
		a, b := sv[k], sv[(k+1)%3]
		if !r.onCanvas(a) || !r.onCanvas(b) {
			continue
		}
		r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), id, c)
	}
}

// onCanvas reports whether a vertex is within a margin of the framebuffer,
// which bounds the length of any line drawn from it.
func (r *Renderer) onCanvas(v screenVertex) bool {
	mx, my := float64(r.fb.Width), float64(r.fb.Height)
	return v.X >= -mx && v.X <= 2*mx && v.Y >= -my && v.Y <= 2*my
}
