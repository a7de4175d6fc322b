package viewport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRenderer struct {
	fast, full int
	fail       bool
}

func (c *countingRenderer) RenderFrame(q Quality) error {
	if c.fail {
		return errors.New("boom")
	}
	if q == Fast {
		c.fast++
	} else {
		c.full++
	}
	return nil
}

func TestNewSchedulerRejectsBadFPS(t *testing.T) {
	_, err := NewScheduler(&countingRenderer{}, 0, nil, nil)
	assert.Error(t, err)
	_, err = NewScheduler(&countingRenderer{}, -5, nil, nil)
	assert.Error(t, err)
}

func TestSchedulerInterval(t *testing.T) {
	s, err := NewScheduler(&countingRenderer{}, 50, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, float64(20*time.Millisecond), float64(s.Interval()), float64(time.Microsecond))
}

func TestSchedulerRateLimitsFastFrames(t *testing.T) {
	target := &countingRenderer{}
	s, err := NewScheduler(target, 30, nil, nil)
	require.NoError(t, err)

	clk := newClock()
	// One pointer move per millisecond for a second.
	for range 1000 {
		s.Request(clk.now(), Fast)
		s.Tick(clk.now())
		clk.advance(time.Millisecond)
	}

	assert.LessOrEqual(t, target.fast, 30)
	assert.Greater(t, target.fast, 20)
	assert.Zero(t, target.full)
	assert.Positive(t, s.Stats().Coalesced)
}

func TestSchedulerCoalescesPendingFrames(t *testing.T) {
	target := &countingRenderer{}
	s, err := NewScheduler(target, 10, nil, nil)
	require.NoError(t, err)
	clk := newClock()

	s.Request(clk.now(), Fast)
	assert.Equal(t, 1, target.fast, "first request renders immediately")
	assert.False(t, s.Pending())

	for range 5 {
		clk.advance(time.Millisecond)
		s.Request(clk.now(), Fast)
	}
	assert.Equal(t, 1, target.fast)
	assert.True(t, s.Pending())
	assert.Equal(t, 4, s.Stats().Coalesced)

	deadline, ok := s.Deadline()
	require.True(t, ok)
	assert.Equal(t, newClock().now().Add(100*time.Millisecond), deadline)

	s.Tick(clk.now())
	assert.Equal(t, 1, target.fast, "not due yet")

	clk.t = deadline
	s.Tick(clk.now())
	assert.Equal(t, 2, target.fast, "only the latest request renders")
	assert.False(t, s.Pending())

	s.Tick(clk.now().Add(time.Second))
	assert.Equal(t, 2, target.fast)
}

func TestSchedulerFullFramesAreNeverDropped(t *testing.T) {
	target := &countingRenderer{}
	s, err := NewScheduler(target, 1, nil, nil)
	require.NoError(t, err)
	clk := newClock()

	s.Request(clk.now(), Fast)
	s.Request(clk.now(), Fast)
	require.True(t, s.Pending())

	for range 3 {
		s.Request(clk.now(), Full)
	}
	assert.Equal(t, 3, target.full)
	assert.False(t, s.Pending(), "full frame supersedes pending fast frame")
	_, ok := s.Deadline()
	assert.False(t, ok)
}

func TestSchedulerSurfacesRenderErrors(t *testing.T) {
	target := &countingRenderer{fail: true}
	out := &output{}
	s, err := NewScheduler(target, 30, out, nil)
	require.NoError(t, err)
	clk := newClock()

	s.Request(clk.now(), Full)
	require.Len(t, out.errs, 1)
	assert.EqualError(t, out.errs[0], "boom")
	assert.Equal(t, 1, s.Stats().Failed)

	target.fail = false
	clk.advance(time.Second)
	s.Request(clk.now(), Full)
	assert.Equal(t, 1, target.full, "scheduler keeps working after a failure")
	assert.Len(t, out.errs, 1)
}
