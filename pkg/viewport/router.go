package viewport

import (
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the interaction state of a Router.
type State int

const (
	Idle State = iota
	DraggingLeft
	DraggingRight
	IdleWithModifier
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingLeft:
		return "dragging-left"
	case DraggingRight:
		return "dragging-right"
	case IdleWithModifier:
		return "idle-with-modifier"
	}
	return "unknown"
}

// Dragging reports whether a drag is in progress.
func (s State) Dragging() bool {
	return s == DraggingLeft || s == DraggingRight
}

// Handler sees every event before the default camera mapping. Returning
// false suppresses the default handling and any later handlers.
type Handler func(ev Event) bool

// Sensitivity scales raw input into controller deltas.
type Sensitivity struct {
	Rotate float64 `toml:"rotate"` // Radians per pointer cell
	Pan    float64 `toml:"pan"`    // View-plane units per pointer cell
	Zoom   float64 `toml:"zoom"`   // Zoom delta per wheel notch
	Move   float64 `toml:"move"`   // World units per movement key press
	Spin   float64 `toml:"spin"`   // Maximum spin impulse in radians per frame
}

// DefaultSensitivity matches pointer cells on a terminal surface.
func DefaultSensitivity() Sensitivity {
	return Sensitivity{
		Rotate: 0.03,
		Pan:    0.005,
		Zoom:   0.1,
		Move:   0.1,
		Spin:   0.5,
	}
}

var moveKeys = map[string]Direction{
	"w":      Forward,
	"up":     Forward,
	"s":      Backward,
	"down":   Backward,
	"a":      Left,
	"left":   Left,
	"d":      Right,
	"right":  Right,
	"e":      Up,
	"pgup":   Up,
	"q":      Down,
	"pgdown": Down,
}

func isModifier(key string) bool {
	switch key {
	case "shift", "ctrl", "alt":
		return true
	}
	return false
}

// Router turns events into controller operations and frame requests.
type Router struct {
	ctrl   Controller
	sched  *Scheduler
	params *Params
	spin   *Spinner
	sens   Sensitivity

	handlers []Handler

	state    State
	modifier bool
	lastX    int
	lastY    int
}

// NewRouter creates a router. params and spin may be nil.
func NewRouter(ctrl Controller, sched *Scheduler, params *Params, spin *Spinner, sens Sensitivity) *Router {
	return &Router{
		ctrl:   ctrl,
		sched:  sched,
		params: params,
		spin:   spin,
		sens:   sens,
	}
}

// Use appends handlers to the chain.
func (r *Router) Use(h ...Handler) {
	r.handlers = append(r.handlers, h...)
}

// State returns the current interaction state.
func (r *Router) State() State {
	return r.state
}

// Dispatch runs the handler chain and then the default mapping.
func (r *Router) Dispatch(now time.Time, ev Event) {
	if ev == nil {
		return
	}
	for _, h := range r.handlers {
		if !h(ev) {
			return
		}
	}
	r.apply(now, ev)
}

func (r *Router) apply(now time.Time, ev Event) {
	switch ev := ev.(type) {
	case PointerDown:
		r.pointerDown(ev)

	case PointerMove:
		if !r.state.Dragging() {
			return
		}
		dx, dy := float64(ev.X-r.lastX), float64(ev.Y-r.lastY)
		r.lastX, r.lastY = ev.X, ev.Y
		if dx == 0 && dy == 0 {
			return
		}
		if r.state == DraggingLeft {
			r.ctrl.Rotate(mgl64.Vec2{dx * r.sens.Rotate, dy * r.sens.Rotate})
		} else {
			r.ctrl.Pan(mgl64.Vec2{-dx * r.sens.Pan, dy * r.sens.Pan})
		}
		r.frame(now, Fast)

	case PointerUp:
		r.state = r.restingState()
		r.ctrl.ClearDirty()
		r.sched.Request(now, Full)

	case Wheel:
		if ev.Delta == 0 {
			return
		}
		r.ctrl.Zoom(ev.Delta * r.sens.Zoom)
		r.frame(now, Full)

	case KeyDown:
		r.keyDown(now, ev.Key)

	case KeyUp:
		if isModifier(ev.Key) {
			r.modifier = false
			if r.state == IdleWithModifier {
				r.state = Idle
			}
		}

	case SliderChange:
		if r.params != nil && r.params.Set(ev.Name, ev.Value) {
			r.sched.Request(now, Full)
		}

	case Toggle:
		if r.params != nil && r.params.Toggle(ev.Name) {
			r.sched.Request(now, Full)
		}

	case Resize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return
		}
		r.ctrl.SetViewport(ev.Width, ev.Height)
		r.frame(now, Full)

	case Reload:
		r.sched.Request(now, Full)
	}
}

func (r *Router) pointerDown(ev PointerDown) {
	if r.state.Dragging() {
		return
	}
	switch {
	case ev.Button == ButtonLeft && (ev.Shift || r.modifier):
		r.state = DraggingRight
	case ev.Button == ButtonLeft:
		r.state = DraggingLeft
	case ev.Button == ButtonRight:
		r.state = DraggingRight
	default:
		return
	}
	r.lastX, r.lastY = ev.X, ev.Y
	if r.spin != nil {
		r.spin.Stop()
	}
}

func (r *Router) keyDown(now time.Time, key string) {
	if key == "" {
		return
	}
	if isModifier(key) {
		r.modifier = true
		if r.state == Idle {
			r.state = IdleWithModifier
		}
		return
	}
	if dir, ok := moveKeys[key]; ok {
		r.ctrl.Move(dir, r.sens.Move)
		r.frame(now, Full)
		return
	}
	switch key {
	case "r":
		if r.spin != nil {
			r.spin.Stop()
		}
		r.ctrl.Reset()
		r.frame(now, Full)
	case "+", "=":
		r.ctrl.Zoom(r.sens.Zoom)
		r.frame(now, Full)
	case "-", "_":
		r.ctrl.Zoom(-r.sens.Zoom)
		r.frame(now, Full)
	case "space":
		if r.spin != nil {
			r.spin.Kick(mgl64.Vec2{
				(rand.Float64() - 0.5) * r.sens.Spin,
				(rand.Float64() - 0.5) * r.sens.Spin,
			})
		}
	}
}

func (r *Router) restingState() State {
	if r.modifier {
		return IdleWithModifier
	}
	return Idle
}

// frame requests a frame if the controller changed.
func (r *Router) frame(now time.Time, q Quality) {
	if !r.ctrl.Dirty() {
		return
	}
	r.ctrl.ClearDirty()
	r.sched.Request(now, q)
}

// advanceSpin applies one spin step.
func (r *Router) advanceSpin(now time.Time) {
	if r.spin == nil || !r.spin.Active() || r.state.Dragging() {
		return
	}
	delta, settled := r.spin.Step()
	r.ctrl.Rotate(delta)
	if settled {
		r.ctrl.ClearDirty()
		r.sched.Request(now, Full)
		return
	}
	r.frame(now, Fast)
}
