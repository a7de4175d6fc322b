package render

import (
	"image"
	"math"
)

// Framebuffer holds the color, depth and face index planes of one frame.
type Framebuffer struct {
	Width  int
	Height int
	Image  *image.RGBA
	Depth  []float64
	Face   []int32 // Index of the face covering each pixel, -1 for background
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Image:  image.NewRGBA(image.Rect(0, 0, width, height)),
		Depth:  make([]float64, width*height),
		Face:   make([]int32, width*height),
	}
}

// Clear fills the color plane with c and resets depth and face indices.
func (fb *Framebuffer) Clear(c Color) {
	pix := fb.Image.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	// Use copy-doubling for faster clearing
	for i := 4; i < len(pix); i *= 2 {
		copy(pix[i:], pix[:i])
	}
	fb.Depth[0] = math.MaxFloat64
	for i := 1; i < len(fb.Depth); i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
	fb.Face[0] = -1
	for i := 1; i < len(fb.Face); i *= 2 {
		copy(fb.Face[i:], fb.Face[:i])
	}
}

// SetPixel sets a pixel at (x, y). Out of range writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Image.SetRGBA(x, y, c)
}

// GetPixel returns the color at (x, y), or transparent black out of range.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Image.RGBAAt(x, y)
}

// plot writes a fragment when it passes the depth test.
func (fb *Framebuffer) plot(x, y int, z float64, face int32, c Color) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	fb.Face[i] = face
	fb.Image.SetRGBA(x, y, c)
	return true
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm,
// tagging covered pixels with face.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, face int32, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < fb.Width && y0 >= 0 && y0 < fb.Height {
			fb.Face[y0*fb.Width+x0] = face
			fb.Image.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
