package viewport

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

// spinRest is the per-frame rotation below which a spin counts as settled.
const spinRest = 1e-4

// Spinner keeps a turntable rotating after an impulse and lets a
// critically damped spring bring the angular velocity back to zero.
type Spinner struct {
	spring harmonica.Spring
	vel    [2]float64 // radians per frame
	accel  [2]float64 // spring velocity of vel
	active bool
}

// NewSpinner creates a spinner stepped fps times per second.
func NewSpinner(fps int) *Spinner {
	return &Spinner{
		// Frequency 4, damping 1: moderate, no overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 4.0, 1.0),
	}
}

// Kick adds an angular impulse in radians per frame.
func (s *Spinner) Kick(v mgl64.Vec2) {
	s.vel[0] += v.X()
	s.vel[1] += v.Y()
	s.active = math.Abs(s.vel[0]) > spinRest || math.Abs(s.vel[1]) > spinRest
}

// Stop drops any remaining velocity.
func (s *Spinner) Stop() {
	s.vel, s.accel = [2]float64{}, [2]float64{}
	s.active = false
}

// Active reports whether the spinner still has velocity.
func (s *Spinner) Active() bool {
	return s.active
}

// Step returns this frame's rotation and decays the velocity. settled is
// true on the step that brings the spinner to rest.
func (s *Spinner) Step() (delta mgl64.Vec2, settled bool) {
	if !s.active {
		return mgl64.Vec2{}, false
	}
	delta = mgl64.Vec2{s.vel[0], s.vel[1]}
	for i := range s.vel {
		s.vel[i], s.accel[i] = s.spring.Update(s.vel[i], s.accel[i], 0)
	}
	if math.Abs(s.vel[0]) < spinRest && math.Abs(s.vel[1]) < spinRest {
		s.Stop()
		return delta, true
	}
	return delta, false
}
