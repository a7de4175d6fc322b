package viewport

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Slider is a bounded scalar parameter.
type Slider struct {
	Name  string  `toml:"name"`
	Label string  `toml:"label"`
	Min   float64 `toml:"min"`
	Max   float64 `toml:"max"`
	Step  float64 `toml:"step"`
	Value float64 `toml:"value"`
}

// Params holds the render parameters of one session: sliders in display
// order plus named boolean flags.
type Params struct {
	sliders []Slider
	index   map[string]int
	flags   map[string]bool
}

// NewParams validates the sliders and clamps their initial values.
func NewParams(sliders []Slider, flags map[string]bool) (*Params, error) {
	p := &Params{
		sliders: make([]Slider, 0, len(sliders)),
		index:   make(map[string]int, len(sliders)),
		flags:   make(map[string]bool, len(flags)),
	}
	for _, s := range sliders {
		if s.Name == "" {
			return nil, fmt.Errorf("slider without a name")
		}
		if _, dup := p.index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate slider %q", s.Name)
		}
		if s.Min > s.Max {
			return nil, fmt.Errorf("slider %q: min %g > max %g", s.Name, s.Min, s.Max)
		}
		if s.Step <= 0 {
			s.Step = (s.Max - s.Min) / 100
		}
		if s.Label == "" {
			s.Label = s.Name
		}
		s.Value = mgl64.Clamp(s.Value, s.Min, s.Max)
		p.index[s.Name] = len(p.sliders)
		p.sliders = append(p.sliders, s)
	}
	maps.Copy(p.flags, flags)
	return p, nil
}

// Set stores a clamped value. It reports false for unknown names.
func (p *Params) Set(name string, v float64) bool {
	i, ok := p.index[name]
	if !ok {
		return false
	}
	s := &p.sliders[i]
	s.Value = mgl64.Clamp(v, s.Min, s.Max)
	return true
}

// Stepped returns the value of name moved by steps increments, clamped.
func (p *Params) Stepped(name string, steps int) (float64, bool) {
	i, ok := p.index[name]
	if !ok {
		return 0, false
	}
	s := p.sliders[i]
	return mgl64.Clamp(s.Value+float64(steps)*s.Step, s.Min, s.Max), true
}

// Value returns the current value of a slider.
func (p *Params) Value(name string) (float64, bool) {
	i, ok := p.index[name]
	if !ok {
		return 0, false
	}
	return p.sliders[i].Value, true
}

// Toggle flips a flag. It reports false for unknown names.
func (p *Params) Toggle(name string) bool {
	v, ok := p.flags[name]
	if !ok {
		return false
	}
	p.flags[name] = !v
	return true
}

// Flag returns the value of a flag; unknown flags are false.
func (p *Params) Flag(name string) bool {
	return p.flags[name]
}

// Sliders returns a copy of the sliders in display order.
func (p *Params) Sliders() []Slider {
	return slices.Clone(p.sliders)
}

// FlagNames returns the flag names in sorted order.
func (p *Params) FlagNames() []string {
	return slices.Sorted(maps.Keys(p.flags))
}

// Snapshot copies the current values for a render.
func (p *Params) Snapshot() ParamSnapshot {
	snap := ParamSnapshot{
		Values: make(map[string]float64, len(p.sliders)),
		Flags:  maps.Clone(p.flags),
	}
	for _, s := range p.sliders {
		snap.Values[s.Name] = s.Value
	}
	return snap
}

// ParamSnapshot is the read-only view of Params handed to a render.
type ParamSnapshot struct {
	Values map[string]float64
	Flags  map[string]bool
}

// Value returns the named value or fallback when absent.
func (s ParamSnapshot) Value(name string, fallback float64) float64 {
	if v, ok := s.Values[name]; ok {
		return v
	}
	return fallback
}

// Flag returns the named flag or fallback when absent.
func (s ParamSnapshot) Flag(name string, fallback bool) bool {
	if v, ok := s.Flags[name]; ok {
		return v
	}
	return fallback
}
