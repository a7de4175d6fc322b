package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParamsValidation(t *testing.T) {
	_, err := NewParams([]Slider{{Min: 0, Max: 1}}, nil)
	assert.Error(t, err, "unnamed slider")

	_, err = NewParams([]Slider{{Name: "a"}, {Name: "a"}}, nil)
	assert.Error(t, err, "duplicate slider")

	_, err = NewParams([]Slider{{Name: "a", Min: 2, Max: 1}}, nil)
	assert.Error(t, err, "inverted range")
}

func TestParamsDefaultsAndClamping(t *testing.T) {
	p, err := NewParams([]Slider{{Name: "a", Min: 0, Max: 10, Value: 20}}, nil)
	require.NoError(t, err)

	s := p.Sliders()[0]
	assert.Equal(t, "a", s.Label)
	assert.InDelta(t, 0.1, s.Step, 1e-12)
	assert.Equal(t, 10.0, s.Value)

	assert.True(t, p.Set("a", -5))
	v, ok := p.Value("a")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = p.Stepped("a", 3)
	assert.True(t, ok)
	assert.InDelta(t, 0.3, v, 1e-12)
	v, _ = p.Stepped("a", -3)
	assert.Equal(t, 0.0, v)

	_, ok = p.Stepped("b", 1)
	assert.False(t, ok)
}

func TestParamsSnapshotIsIsolated(t *testing.T) {
	p, err := NewParams(
		[]Slider{{Name: "a", Min: 0, Max: 1, Value: 0.5}},
		map[string]bool{"on": true, "off": false},
	)
	require.NoError(t, err)

	snap := p.Snapshot()
	p.Set("a", 1)
	p.Toggle("on")

	assert.Equal(t, 0.5, snap.Value("a", 0))
	assert.True(t, snap.Flag("on", false))
	assert.Equal(t, 7.0, snap.Value("missing", 7))
	assert.True(t, snap.Flag("missing", true))
	assert.False(t, p.Flag("on"))
	assert.Equal(t, []string{"off", "on"}, p.FlagNames())
}
