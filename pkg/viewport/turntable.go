package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Turntable orbits the camera around a look-at point. Azimuth spins around
// the world up axis, elevation tilts above or below the horizon.
type Turntable struct {
	target    mgl64.Vec3
	azimuth   float64
	elevation float64
	distance  float64
	fov       float64
	width     int
	height    int

	// Distance limits for Zoom and Move. Zero MinDistance still keeps the
	// eye off the target.
	MinDistance float64
	MaxDistance float64

	home  turntablePose
	dirty bool
}

type turntablePose struct {
	target    mgl64.Vec3
	azimuth   float64
	elevation float64
	distance  float64
}

// NewTurntable creates a turntable looking at target from distance along +Z.
func NewTurntable(target mgl64.Vec3, distance, fov float64, width, height int) *Turntable {
	t := &Turntable{
		target:      target,
		distance:    distance,
		fov:         fov,
		width:       width,
		height:      height,
		MinDistance: 0.05,
		MaxDistance: 1000,
		dirty:       true,
	}
	t.home = t.pose()
	return t
}

func (t *Turntable) pose() turntablePose {
	return turntablePose{
		target:    t.target,
		azimuth:   t.azimuth,
		elevation: t.elevation,
		distance:  t.distance,
	}
}

// Azimuth returns the orbit angle around the up axis in radians.
func (t *Turntable) Azimuth() float64 { return t.azimuth }

// Elevation returns the orbit angle above the horizon in radians.
func (t *Turntable) Elevation() float64 { return t.elevation }

// Distance returns the orbit radius.
func (t *Turntable) Distance() float64 { return t.distance }

// Target returns the look-at point.
func (t *Turntable) Target() mgl64.Vec3 { return t.target }

func (t *Turntable) offset() mgl64.Vec3 {
	ce := math.Cos(t.elevation)
	return mgl64.Vec3{
		ce * math.Sin(t.azimuth),
		math.Sin(t.elevation),
		ce * math.Cos(t.azimuth),
	}.Mul(t.distance)
}

// basis returns the camera right and up vectors.
func (t *Turntable) basis() (right, up mgl64.Vec3) {
	forward := t.offset().Mul(-1).Normalize()
	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward)
	return right, up
}

// Rotate adds delta.X to the azimuth and delta.Y to the elevation.
func (t *Turntable) Rotate(delta mgl64.Vec2) {
	t.azimuth -= delta.X()
	t.elevation = mgl64.Clamp(t.elevation+delta.Y(), -maxPitch, maxPitch)
	t.dirty = true
}

// Pan slides the look-at point in the view plane. Deltas are scaled by the
// orbit distance so a pan feels the same at any zoom level.
func (t *Turntable) Pan(delta mgl64.Vec2) {
	right, up := t.basis()
	move := right.Mul(delta.X()).Add(up.Mul(delta.Y())).Mul(t.distance)
	t.target = t.target.Add(move)
	t.dirty = true
}

// Zoom scales the orbit distance by exp(-delta); positive deltas move in.
func (t *Turntable) Zoom(delta float64) {
	t.setDistance(t.distance * math.Exp(-delta))
}

func (t *Turntable) setDistance(d float64) {
	lo := math.Max(t.MinDistance, 1e-6)
	hi := math.Max(t.MaxDistance, lo)
	t.distance = mgl64.Clamp(d, lo, hi)
	t.dirty = true
}

// Move dollies toward or away from the target, or slides the target in
// world units.
func (t *Turntable) Move(dir Direction, amount float64) {
	right, up := t.basis()
	switch dir {
	case Forward:
		t.setDistance(t.distance - amount)
		return
	case Backward:
		t.setDistance(t.distance + amount)
		return
	case Left:
		t.target = t.target.Sub(right.Mul(amount))
	case Right:
		t.target = t.target.Add(right.Mul(amount))
	case Up:
		t.target = t.target.Add(up.Mul(amount))
	case Down:
		t.target = t.target.Sub(up.Mul(amount))
	default:
		return
	}
	t.dirty = true
}

// SetViewport updates the viewport size.
func (t *Turntable) SetViewport(width, height int) {
	t.width, t.height = width, height
	t.dirty = true
}

// Reset restores the pose the turntable was created with.
func (t *Turntable) Reset() {
	t.target = t.home.target
	t.azimuth = t.home.azimuth
	t.elevation = t.home.elevation
	t.distance = t.home.distance
	t.dirty = true
}

// Camera returns a snapshot of the current view.
func (t *Turntable) Camera() Camera {
	_, up := t.basis()
	return Camera{
		Eye:    t.target.Add(t.offset()),
		Target: t.target,
		Up:     up,
		FOV:    t.fov,
		Near:   defaultNear,
		Far:    math.Max(defaultFar, t.distance*4),
		Width:  t.width,
		Height: t.height,
	}
}

func (t *Turntable) Dirty() bool { return t.dirty }
func (t *Turntable) ClearDirty() { t.dirty = false }
