package term

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/taigrr/glance/pkg/viewport"
)

// HUD is the status overlay: frame rate, model name and polygon count on the
// top row, flag checkboxes and key hints on the bottom row.
type HUD struct {
	Filename string
	Polys    int
	Mode     viewport.Mode
	Show     bool

	params    *viewport.Params
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD reading flags from params.
func NewHUD(filename string, polys int, mode viewport.Mode, params *viewport.Params) *HUD {
	return &HUD{
		Filename: filename,
		Polys:    polys,
		Mode:     mode,
		params:   params,
	}
}

// Frame counts a presented frame at now.
func (h *HUD) Frame(now time.Time) {
	if h.fpsTime.IsZero() {
		h.fpsTime = now
	}
	h.fpsFrames++
	if elapsed := now.Sub(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the presented frames per second over the last full second.
func (h *HUD) FPS() float64 { return h.fps }

// TopLine renders the top status row at the given width.
func (h *HUD) TopLine(width int) string {
	return spread(width,
		fpsStyle.Render(fmt.Sprintf(" %.0f FPS ", h.fps)),
		titleStyle.Render(" "+h.Filename+" "),
		polyStyle.Render(fmt.Sprintf(" %d polys ", h.Polys)),
	)
}

// BottomLine renders the flag checkboxes and key hints.
func (h *HUD) BottomLine(width int) string {
	var b strings.Builder
	b.WriteString(" ")
	if h.params != nil {
		for _, name := range h.params.FlagNames() {
			box := checkOff
			if h.params.Flag(name) {
				box = checkOn
			}
			fmt.Fprintf(&b, "%s %s  ", box, name)
		}
	}
	b.WriteString(string(h.Mode))
	return spread(width,
		barStyle.Render(b.String()),
		"",
		hintStyle.Render(" l: light  tab: sliders  ?: hud "),
	)
}

// spread places left, center and right segments across width on a filled
// bar. Segments that do not fit are dropped from the right.
func spread(width int, left, center, right string) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	if lw+cw+rw > width {
		right, rw = "", 0
	}
	if lw+cw > width {
		center, cw = "", 0
	}
	gap := width - lw - cw - rw
	if gap < 0 {
		return left
	}
	l := gap / 2
	if center == "" {
		l = gap
	}
	return left + barStyle.Render(strings.Repeat(" ", l)) + center +
		barStyle.Render(strings.Repeat(" ", gap-l)) + right
}
