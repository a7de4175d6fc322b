package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FirstPerson moves the eye freely. Yaw turns around the world up axis and
// pitch looks up or down; translation follows the current heading.
type FirstPerson struct {
	position mgl64.Vec3
	yaw      float64
	pitch    float64
	fov      float64
	width    int
	height   int

	home  firstPersonPose
	dirty bool
}

type firstPersonPose struct {
	position   mgl64.Vec3
	yaw, pitch float64
}

// NewFirstPerson creates a first-person camera at eye looking at target.
func NewFirstPerson(eye, target mgl64.Vec3, fov float64, width, height int) *FirstPerson {
	f := &FirstPerson{
		position: eye,
		fov:      fov,
		width:    width,
		height:   height,
		dirty:    true,
	}
	dir := target.Sub(eye).Normalize()
	if dir.Len() > 0 {
		f.pitch = mgl64.Clamp(math.Asin(dir.Y()), -maxPitch, maxPitch)
		f.yaw = math.Atan2(-dir.X(), -dir.Z())
	}
	f.home = firstPersonPose{position: f.position, yaw: f.yaw, pitch: f.pitch}
	return f
}

// Position returns the eye position.
func (f *FirstPerson) Position() mgl64.Vec3 { return f.position }

// Yaw returns the heading in radians (0 looks down -Z).
func (f *FirstPerson) Yaw() float64 { return f.yaw }

// Pitch returns the look angle above the horizon in radians.
func (f *FirstPerson) Pitch() float64 { return f.pitch }

func (f *FirstPerson) forward() mgl64.Vec3 {
	return mgl64.Vec3{
		-math.Sin(f.yaw) * math.Cos(f.pitch),
		math.Sin(f.pitch),
		-math.Cos(f.yaw) * math.Cos(f.pitch),
	}
}

func (f *FirstPerson) right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(f.yaw), 0, -math.Sin(f.yaw)}
}

func (f *FirstPerson) up() mgl64.Vec3 {
	return f.right().Cross(f.forward())
}

// Rotate turns the heading by delta.X and tilts the view by delta.Y.
func (f *FirstPerson) Rotate(delta mgl64.Vec2) {
	f.yaw -= delta.X()
	f.pitch = mgl64.Clamp(f.pitch-delta.Y(), -maxPitch, maxPitch)
	f.dirty = true
}

// Pan strafes in the view plane.
func (f *FirstPerson) Pan(delta mgl64.Vec2) {
	f.position = f.position.
		Add(f.right().Mul(delta.X())).
		Add(f.up().Mul(delta.Y()))
	f.dirty = true
}

// Zoom dollies along the view direction.
func (f *FirstPerson) Zoom(delta float64) {
	f.position = f.position.Add(f.forward().Mul(delta))
	f.dirty = true
}

// Move translates the eye. Up and Down use the world up axis.
func (f *FirstPerson) Move(dir Direction, amount float64) {
	var step mgl64.Vec3
	switch dir {
	case Forward:
		step = f.forward()
	case Backward:
		step = f.forward().Mul(-1)
	case Left:
		step = f.right().Mul(-1)
	case Right:
		step = f.right()
	case Up:
		step = worldUp
	case Down:
		step = worldUp.Mul(-1)
	default:
		return
	}
	f.position = f.position.Add(step.Mul(amount))
	f.dirty = true
}

func (f *FirstPerson) SetViewport(width, height int) {
	f.width, f.height = width, height
	f.dirty = true
}

func (f *FirstPerson) Reset() {
	f.position = f.home.position
	f.yaw = f.home.yaw
	f.pitch = f.home.pitch
	f.dirty = true
}

func (f *FirstPerson) Camera() Camera {
	return Camera{
		Eye:    f.position,
		Target: f.position.Add(f.forward()),
		Up:     f.up(),
		FOV:    f.fov,
		Near:   defaultNear,
		Far:    defaultFar * 10,
		Width:  f.width,
		Height: f.height,
	}
}

func (f *FirstPerson) Dirty() bool { return f.dirty }
func (f *FirstPerson) ClearDirty() { f.dirty = false }
