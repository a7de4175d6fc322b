package viewport

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/harmonica"
)

// FrameRenderer renders one frame at the given quality.
type FrameRenderer interface {
	RenderFrame(q Quality) error
}

// Stats counts what the scheduler did.
type Stats struct {
	Fast      int // Fast frames rendered
	Full      int // Full frames rendered
	Coalesced int // Fast requests superseded before they rendered
	Failed    int // Renders that returned an error
}

// Scheduler rate-limits fast frames to a maximum frame rate and keeps at
// most one fast request pending. Full frames render immediately.
type Scheduler struct {
	target   FrameRenderer
	out      Output
	log      *slog.Logger
	interval time.Duration

	last    time.Time
	primed  bool
	pending bool
	stats   Stats
}

// NewScheduler creates a scheduler that renders at most maxFPS fast frames
// per second. out may be nil.
func NewScheduler(target FrameRenderer, maxFPS int, out Output, logger *slog.Logger) (*Scheduler, error) {
	if maxFPS < 1 {
		return nil, fmt.Errorf("max fps must be at least 1, got %d", maxFPS)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		target:   target,
		out:      out,
		log:      logger,
		interval: time.Duration(harmonica.FPS(maxFPS) * float64(time.Second)),
	}, nil
}

// Interval returns the minimum spacing between fast frames.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Request asks for a frame. A fast request renders now when the rate limit
// allows it and is otherwise held until Tick; a newer fast request replaces
// a held one. A full request always renders now and drops any held fast
// request, since it shows the same or newer state.
func (s *Scheduler) Request(now time.Time, q Quality) {
	if q == Full {
		s.pending = false
		s.render(now, Full)
		return
	}
	if s.pending {
		s.stats.Coalesced++
	}
	if s.ready(now) {
		s.pending = false
		s.render(now, Fast)
		return
	}
	s.pending = true
}

// Pending reports whether a fast frame is waiting.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Deadline returns when the pending frame may render.
func (s *Scheduler) Deadline() (time.Time, bool) {
	if !s.pending {
		return time.Time{}, false
	}
	return s.last.Add(s.interval), true
}

// Tick renders the pending frame if it is due.
func (s *Scheduler) Tick(now time.Time) {
	if s.pending && s.ready(now) {
		s.pending = false
		s.render(now, Fast)
	}
}

// Stats returns the counters.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

func (s *Scheduler) ready(now time.Time) bool {
	return !s.primed || now.Sub(s.last) >= s.interval
}

func (s *Scheduler) render(now time.Time, q Quality) {
	s.last = now
	s.primed = true

	if err := s.target.RenderFrame(q); err != nil {
		s.stats.Failed++
		s.log.Error("render failed", "quality", q, "error", err)
		if s.out != nil {
			s.out.ShowError(err)
		}
		return
	}
	if q == Fast {
		s.stats.Fast++
	} else {
		s.stats.Full++
	}
}
