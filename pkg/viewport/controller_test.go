package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestTurntableInitialCamera(t *testing.T) {
	tt := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 160, 90)
	cam := tt.Camera()

	assert.True(t, cam.Eye.ApproxEqualThreshold(mgl64.Vec3{0, 0, 2}, eps), "eye %v", cam.Eye)
	assert.True(t, cam.Up.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, eps), "up %v", cam.Up)
	assert.InDelta(t, 2, cam.Distance(), eps)
	assert.InDelta(t, 160.0/90.0, cam.Aspect(), eps)
	assert.True(t, tt.Dirty())
}

func TestTurntableRotationsCompose(t *testing.T) {
	step := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 100, 100)
	once := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 100, 100)

	deg := mgl64.DegToRad(1)
	for range 10 {
		step.Rotate(mgl64.Vec2{deg, 0})
	}
	once.Rotate(mgl64.Vec2{10 * deg, 0})

	assert.InDelta(t, -10*deg, step.Azimuth(), eps)
	assert.True(t, step.Camera().Eye.ApproxEqualThreshold(once.Camera().Eye, eps))
	assert.InDelta(t, 2, step.Camera().Distance(), eps)
}

func TestTurntableElevationClamped(t *testing.T) {
	tt := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 100, 100)
	tt.Rotate(mgl64.Vec2{0, 10})
	assert.InDelta(t, maxPitch, tt.Elevation(), eps)

	tt.Rotate(mgl64.Vec2{0, -20})
	assert.InDelta(t, -maxPitch, tt.Elevation(), eps)
}

func TestTurntableZoomNeverInverts(t *testing.T) {
	tt := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 100, 100)

	tt.Zoom(100)
	assert.Greater(t, tt.Distance(), 0.0)
	assert.InDelta(t, tt.MinDistance, tt.Distance(), eps)

	tt.Zoom(-100)
	assert.InDelta(t, tt.MaxDistance, tt.Distance(), eps)

	tt.Move(Forward, 1e6)
	assert.Greater(t, tt.Distance(), 0.0)
}

func TestTurntableZoomIsMultiplicative(t *testing.T) {
	tt := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 100, 100)
	tt.Zoom(0.5)
	tt.Zoom(-0.5)
	assert.InDelta(t, 2, tt.Distance(), 1e-12)
}

func TestTurntablePanMovesTarget(t *testing.T) {
	tt := NewTurntable(mgl64.Vec3{}, 2, math.Pi/3, 100, 100)
	tt.Pan(mgl64.Vec2{0.5, 0})

	// Pan is scaled by distance; at azimuth 0 camera right is +X.
	assert.True(t, tt.Target().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, eps), "target %v", tt.Target())
	assert.InDelta(t, 2, tt.Camera().Distance(), eps)
}

func TestTurntableReset(t *testing.T) {
	tt := NewTurntable(mgl64.Vec3{1, 2, 3}, 4, math.Pi/3, 100, 100)
	before := tt.Camera()

	tt.Rotate(mgl64.Vec2{1, 0.5})
	tt.Pan(mgl64.Vec2{1, 1})
	tt.Zoom(1)
	tt.Reset()

	after := tt.Camera()
	assert.True(t, before.Eye.ApproxEqualThreshold(after.Eye, eps))
	assert.True(t, before.Target.ApproxEqualThreshold(after.Target, eps))
}

func TestFirstPersonLooksAtTarget(t *testing.T) {
	fp := NewFirstPerson(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, math.Pi/3, 100, 100)
	cam := fp.Camera()

	assert.True(t, cam.Forward().ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, eps), "forward %v", cam.Forward())
	assert.InDelta(t, 0, fp.Yaw(), eps)
	assert.InDelta(t, 0, fp.Pitch(), eps)
}

func TestFirstPersonMove(t *testing.T) {
	fp := NewFirstPerson(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, math.Pi/3, 100, 100)

	fp.Move(Forward, 1)
	assert.True(t, fp.Position().ApproxEqualThreshold(mgl64.Vec3{0, 0, 4}, eps))

	fp.Move(Right, 2)
	assert.True(t, fp.Position().ApproxEqualThreshold(mgl64.Vec3{2, 0, 4}, eps))

	fp.Move(Up, 1)
	assert.True(t, fp.Position().ApproxEqualThreshold(mgl64.Vec3{2, 1, 4}, eps))

	fp.Reset()
	assert.True(t, fp.Position().ApproxEqualThreshold(mgl64.Vec3{0, 0, 5}, eps))
}

func TestFirstPersonPitchClamped(t *testing.T) {
	fp := NewFirstPerson(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, math.Pi/3, 100, 100)
	fp.Rotate(mgl64.Vec2{0, -10})
	assert.InDelta(t, maxPitch, fp.Pitch(), eps)
	fp.Rotate(mgl64.Vec2{0, 20})
	assert.InDelta(t, -maxPitch, fp.Pitch(), eps)
}

func TestControllersMarkDirty(t *testing.T) {
	controllers := map[string]Controller{
		"turntable":   NewTurntable(mgl64.Vec3{}, 2, 1, 10, 10),
		"firstperson": NewFirstPerson(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{}, 1, 10, 10),
	}
	ops := map[string]func(Controller){
		"rotate":   func(c Controller) { c.Rotate(mgl64.Vec2{0.1, 0}) },
		"pan":      func(c Controller) { c.Pan(mgl64.Vec2{0.1, 0}) },
		"zoom":     func(c Controller) { c.Zoom(0.1) },
		"move":     func(c Controller) { c.Move(Left, 0.1) },
		"viewport": func(c Controller) { c.SetViewport(20, 20) },
		"reset":    func(c Controller) { c.Reset() },
	}
	for cname, c := range controllers {
		for oname, op := range ops {
			c.ClearDirty()
			op(c)
			assert.True(t, c.Dirty(), "%s %s should mark dirty", cname, oname)
		}
	}
}
