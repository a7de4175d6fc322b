package term

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/taigrr/glance/pkg/viewport"
)

// Target is the session surface handlers act on. *viewport.Session
// satisfies it.
type Target interface {
	Params() *viewport.Params
	Controller() viewport.Controller
	SetParam(name string, v float64) bool
	ToggleFlag(name string) bool
	Invalidate(q viewport.Quality)
}

// Panel is a keyboard-driven slider panel. Tab cycles the selected slider,
// [ and ] step it, { and } step it ten times. Letter keys in FlagKeys
// toggle flags.
type Panel struct {
	Show     bool
	FlagKeys map[string]string // key -> flag name

	target   Target
	selected int
}

// NewPanel creates a hidden panel over the target's sliders.
func NewPanel(target Target, flagKeys map[string]string) *Panel {
	return &Panel{target: target, FlagKeys: flagKeys}
}

// Selected returns the name of the selected slider, or "" when there are
// none.
func (p *Panel) Selected() string {
	sliders := p.target.Params().Sliders()
	if len(sliders) == 0 {
		return ""
	}
	return sliders[p.selected%len(sliders)].Name
}

// Handle is a viewport.Handler. Keys it uses are not passed on.
func (p *Panel) Handle(ev viewport.Event) bool {
	kd, ok := ev.(viewport.KeyDown)
	if !ok {
		return true
	}
	if flag, ok := p.FlagKeys[kd.Key]; ok {
		p.target.ToggleFlag(flag)
		return false
	}

	n := len(p.target.Params().Sliders())
	switch kd.Key {
	case "p":
		p.Show = !p.Show
		p.target.Invalidate(viewport.Full)
	case "tab":
		if n > 0 {
			p.selected = (p.selected + 1) % n
			p.Show = true
			p.target.Invalidate(viewport.Full)
		}
	case "shift+tab":
		if n > 0 {
			p.selected = (p.selected + n - 1) % n
			p.Show = true
			p.target.Invalidate(viewport.Full)
		}
	case "]":
		p.step(1)
	case "[":
		p.step(-1)
	case "}":
		p.step(10)
	case "{":
		p.step(-10)
	default:
		return true
	}
	return false
}

func (p *Panel) step(steps int) {
	name := p.Selected()
	if name == "" {
		return
	}
	if v, ok := p.target.Params().Stepped(name, steps); ok {
		p.target.SetParam(name, v)
	}
}

// View renders the panel box.
func (p *Panel) View() string {
	sliders := p.target.Params().Sliders()
	lines := []string{headerStyle.Render("Parameters")}
	for i, s := range sliders {
		label := labelStyle.Render(s.Label)
		if i == p.selected%max(len(sliders), 1) {
			label = activeStyle.Render("> " + s.Label)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			label,
			meterStyle.Render(meter(s)),
			valueStyle.Render(fmt.Sprintf("%8.3g", s.Value)),
		))
	}
	lines = append(lines, panelHelp.Render("tab select  [ ] step  { } x10"))
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// meter draws the slider position as a fixed-width bar.
func meter(s viewport.Slider) string {
	filled := 0
	if s.Max > s.Min {
		filled = int((s.Value - s.Min) / (s.Max - s.Min) * float64(meterWidth))
	}
	filled = max(0, min(filled, meterWidth))
	return strings.Repeat(meterFilled, filled) + strings.Repeat(meterEmpty, meterWidth-filled)
}
