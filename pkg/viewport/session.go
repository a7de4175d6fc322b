package viewport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects the camera controller.
type Mode string

const (
	ModeTurntable   Mode = "turntable"
	ModeFirstPerson Mode = "firstperson"
)

// Options configures a Session. Invalid options fail New before anything
// renders.
type Options struct {
	Mode      Mode
	Width     int     // Viewport width in pixels
	Height    int     // Viewport height in pixels
	MaxFPS    int     // Upper bound on fast frames per second
	Downscale int     // Fast frames render at 1/Downscale resolution
	FOV       float64 // Vertical field of view in radians

	Target   mgl64.Vec3 // Look-at point
	Distance float64    // Initial eye distance from Target along +Z

	Sensitivity Sensitivity
	Sliders     []Slider
	Flags       map[string]bool

	Logger *slog.Logger
}

// DefaultOptions returns a turntable at distance 2 rendering at 30 FPS.
func DefaultOptions() Options {
	return Options{
		Mode:        ModeTurntable,
		Width:       320,
		Height:      180,
		MaxFPS:      30,
		Downscale:   4,
		FOV:         math.Pi / 3,
		Distance:    2,
		Sensitivity: DefaultSensitivity(),
	}
}

// Validate reports the first configuration error.
func (o Options) Validate() error {
	switch {
	case o.MaxFPS < 1:
		return fmt.Errorf("max fps must be at least 1, got %d", o.MaxFPS)
	case o.Width < 1 || o.Height < 1:
		return fmt.Errorf("invalid resolution %dx%d", o.Width, o.Height)
	case o.Downscale < 1:
		return fmt.Errorf("downscale must be at least 1, got %d", o.Downscale)
	case o.FOV <= 0 || o.FOV >= math.Pi:
		return fmt.Errorf("field of view %g out of range (0, pi)", o.FOV)
	case o.Distance <= 0:
		return fmt.Errorf("camera distance must be positive, got %g", o.Distance)
	}
	switch o.Mode {
	case ModeTurntable, ModeFirstPerson:
	default:
		return fmt.Errorf("unknown camera mode %q", o.Mode)
	}
	return nil
}

// Session is one interactive viewport: a single camera state, its
// parameters, and the loop that turns events into frames. All methods must
// be called from the goroutine running the session.
type Session struct {
	ctrl       Controller
	params     *Params
	dispatcher *Dispatcher
	sched      *Scheduler
	router     *Router
	spin       *Spinner
	log        *slog.Logger

	now    func() time.Time
	spinAt time.Time // next spin step
}

// New validates opts and assembles a session around render.
func New(opts Options, render RenderFunc, surface Surface, out Output) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if render == nil {
		return nil, errors.New("nil render func")
	}
	if surface == nil {
		return nil, errors.New("nil surface")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	params, err := NewParams(opts.Sliders, opts.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid sliders: %w", err)
	}

	var ctrl Controller
	switch opts.Mode {
	case ModeFirstPerson:
		eye := opts.Target.Add(mgl64.Vec3{0, 0, opts.Distance})
		ctrl = NewFirstPerson(eye, opts.Target, opts.FOV, opts.Width, opts.Height)
	default:
		ctrl = NewTurntable(opts.Target, opts.Distance, opts.FOV, opts.Width, opts.Height)
	}

	s := &Session{
		ctrl:   ctrl,
		params: params,
		spin:   NewSpinner(opts.MaxFPS),
		log:    logger,
		now:    time.Now,
	}
	s.dispatcher = NewDispatcher(ctrl, params, render, surface, opts.Downscale)
	s.sched, err = NewScheduler(s.dispatcher, opts.MaxFPS, out, logger)
	if err != nil {
		return nil, err
	}
	s.router = NewRouter(ctrl, s.sched, params, s.spin, opts.Sensitivity)
	return s, nil
}

// Use registers handlers that run before the default camera mapping.
func (s *Session) Use(h ...Handler) {
	s.router.Use(h...)
}

// Controller returns the session's camera controller.
func (s *Session) Controller() Controller { return s.ctrl }

// Params returns the session's render parameters.
func (s *Session) Params() *Params { return s.params }

// Scheduler returns the session's frame scheduler.
func (s *Session) Scheduler() *Scheduler { return s.sched }

// Router returns the session's event router.
func (s *Session) Router() *Router { return s.router }

// Dispatcher returns the session's render dispatcher.
func (s *Session) Dispatcher() *Dispatcher { return s.dispatcher }

// Dispatch routes one event.
func (s *Session) Dispatch(ev Event) {
	s.router.Dispatch(s.now(), ev)
}

// Render issues a full frame.
func (s *Session) Render() {
	s.ctrl.ClearDirty()
	s.sched.Request(s.now(), Full)
}

// Invalidate requests a frame of quality q through the scheduler, for
// handlers that change render state without a camera move.
func (s *Session) Invalidate(q Quality) {
	s.sched.Request(s.now(), q)
}

// SetParam changes a slider value and renders a full frame. It is the
// programmatic form of a SliderChange event and skips the handler chain.
func (s *Session) SetParam(name string, v float64) bool {
	if !s.params.Set(name, v) {
		return false
	}
	s.sched.Request(s.now(), Full)
	return true
}

// ToggleFlag flips a flag and renders a full frame.
func (s *Session) ToggleFlag(name string) bool {
	if !s.params.Toggle(name) {
		return false
	}
	s.sched.Request(s.now(), Full)
	return true
}

// Run renders the first frame and then services events in arrival order
// until ctx is done or events is closed. Deferred fast frames and spin
// steps fire from a timer on the same goroutine.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	s.Render()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	s.arm(timer)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Dispatch(ev)
		case <-timer.C:
			s.advance(s.now())
		}
		s.arm(timer)
	}
}

// advance steps the spin animation and fires a due frame.
func (s *Session) advance(now time.Time) {
	if s.spin.Active() && !now.Before(s.spinAt) {
		s.router.advanceSpin(now)
		s.spinAt = now.Add(s.sched.Interval())
	}
	s.sched.Tick(now)
}

// arm schedules the timer for the next deferred frame or spin step.
func (s *Session) arm(timer *time.Timer) {
	var next time.Time
	if d, ok := s.sched.Deadline(); ok {
		next = d
	}
	if s.spin.Active() {
		if s.spinAt.IsZero() {
			s.spinAt = s.now().Add(s.sched.Interval())
		}
		if next.IsZero() || s.spinAt.Before(next) {
			next = s.spinAt
		}
	} else {
		s.spinAt = time.Time{}
	}
	if next.IsZero() {
		timer.Stop()
		return
	}
	timer.Reset(max(next.Sub(s.now()), 0))
}
