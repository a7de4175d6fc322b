package term

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/glance/pkg/viewport"
)

// LightAim positions the light with the pointer. "l" starts aiming, pointer
// motion moves the light over a hemisphere facing the camera, a click keeps
// it and esc restores the previous direction.
type LightAim struct {
	AzimuthParam   string // degrees
	ElevationParam string // degrees

	target Target
	active bool
	prevAz float64
	prevEl float64
}

// NewLightAim creates a light aiming handler for the named sliders.
func NewLightAim(target Target, azimuth, elevation string) *LightAim {
	return &LightAim{
		AzimuthParam:   azimuth,
		ElevationParam: elevation,
		target:         target,
	}
}

// Active reports whether the pointer is currently aiming the light.
func (l *LightAim) Active() bool { return l.active }

// Handle is a viewport.Handler. While aiming it consumes pointer events and
// esc.
func (l *LightAim) Handle(ev viewport.Event) bool {
	params := l.target.Params()
	if !l.active {
		if kd, ok := ev.(viewport.KeyDown); ok && kd.Key == "l" {
			l.prevAz, _ = params.Value(l.AzimuthParam)
			l.prevEl, _ = params.Value(l.ElevationParam)
			l.active = true
			l.target.Invalidate(viewport.Full)
			return false
		}
		return true
	}

	switch ev := ev.(type) {
	case viewport.PointerMove:
		cam := l.target.Controller().Camera()
		az, el := ScreenToLight(cam, ev.X, ev.Y)
		params.Set(l.AzimuthParam, mgl64.RadToDeg(az))
		params.Set(l.ElevationParam, mgl64.RadToDeg(el))
		l.target.Invalidate(viewport.Fast)
	case viewport.PointerDown:
		l.active = false
		l.target.Invalidate(viewport.Full)
	case viewport.PointerUp:
	case viewport.KeyDown:
		if ev.Key != "esc" {
			return true
		}
		params.Set(l.AzimuthParam, l.prevAz)
		params.Set(l.ElevationParam, l.prevEl)
		l.active = false
		l.target.Invalidate(viewport.Full)
	default:
		return true
	}
	return false
}

// ScreenToLight maps a pixel to a light direction on the hemisphere facing
// the camera and returns its world azimuth and elevation in radians. The
// screen center puts the light at the eye.
func ScreenToLight(cam viewport.Camera, x, y int) (azimuth, elevation float64) {
	w, h := max(cam.Width, 1), max(cam.Height, 1)
	nx := float64(x)/float64(w)*2 - 1
	ny := float64(y)/float64(h)*2 - 1

	// Clamp to unit circle
	if l2 := nx*nx + ny*ny; l2 > 1 {
		l := math.Sqrt(l2)
		nx, ny = nx/l, ny/l
	}
	nz := math.Sqrt(math.Max(0, 1-nx*nx-ny*ny))

	fwd := cam.Forward()
	right := fwd.Cross(cam.Up).Normalize()
	up := right.Cross(fwd)
	dir := right.Mul(nx).Add(up.Mul(-ny)).Add(fwd.Mul(-nz)).Normalize()

	return math.Atan2(dir.X(), dir.Z()), math.Asin(mgl64.Clamp(dir.Y(), -1, 1))
}
