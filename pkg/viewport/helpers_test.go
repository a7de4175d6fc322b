package viewport

import (
	"image"
	"time"
)

// recorder is a render callback that remembers every frame it was asked for.
type recorder struct {
	frames []Frame
	err    error
}

func (r *recorder) render(f Frame) (*Result, error) {
	r.frames = append(r.frames, f)
	if r.err != nil {
		return nil, r.err
	}
	return &Result{Image: image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))}, nil
}

func (r *recorder) count(q Quality) int {
	n := 0
	for _, f := range r.frames {
		if f.Quality == q {
			n++
		}
	}
	return n
}

type surface struct {
	presented []image.Image
}

func (s *surface) Present(img image.Image) error {
	s.presented = append(s.presented, img)
	return nil
}

type output struct {
	errs []error
}

func (o *output) ShowError(err error) {
	o.errs = append(o.errs, err)
}

// clock is a manual time source.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestSession builds a session with a manual clock and a recording
// render func.
func newTestSession(opts Options) (*Session, *recorder, *clock, *output) {
	rec := &recorder{}
	out := &output{}
	s, err := New(opts, rec.render, &surface{}, out)
	if err != nil {
		panic(err)
	}
	clk := newClock()
	s.now = clk.now
	return s, rec, clk, out
}
