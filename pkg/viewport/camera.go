// Package viewport couples camera controllers, a frame scheduler and an event
// router to an opaque render callback.
package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a snapshot of the view: where it sits, what it looks at and the
// size of the surface it is projected onto.
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3

	FOV  float64 // Vertical field of view in radians
	Near float64
	Far  float64

	Width  int // Viewport width in pixels
	Height int // Viewport height in pixels
}

// Aspect returns width / height, or 1 for an empty viewport.
func (c Camera) Aspect() float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// Forward returns the unit view direction.
func (c Camera) Forward() mgl64.Vec3 {
	return c.Target.Sub(c.Eye).Normalize()
}

// Distance returns the distance from the eye to the look-at point.
func (c Camera) Distance() float64 {
	return c.Target.Sub(c.Eye).Len()
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection returns the perspective matrix for the camera's own viewport.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(c.FOV, c.Aspect(), c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Direction names a first-person or keyboard movement.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Controller owns the camera state of a session. Every mutation marks the
// controller dirty; none of them block.
type Controller interface {
	Rotate(delta mgl64.Vec2)
	Pan(delta mgl64.Vec2)
	Zoom(delta float64)
	Move(dir Direction, amount float64)

	SetViewport(width, height int)
	Reset()

	Camera() Camera
	Dirty() bool
	ClearDirty()
}

// maxPitch keeps orientation away from the poles where the up vector
// degenerates.
const maxPitch = math.Pi/2 - 0.01

const (
	defaultNear = 0.1
	defaultFar  = 100
)

var worldUp = mgl64.Vec3{0, 1, 0}
