package term

import (
	"image"
	"log/slog"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glance/pkg/viewport"
)

// errorTTL is how long a render error stays on the output line.
const errorTTL = 5 * time.Second

// Screen is a cell grid that can be flushed to the terminal.
// *uv.Terminal satisfies it.
type Screen interface {
	uv.Screen
	Display() error
}

// Surface presents frames as half-block cells with the HUD, slider panel and
// error line drawn on top. It implements viewport.Surface and
// viewport.Output and must be used from the session goroutine.
type Surface struct {
	HUD   *HUD
	Panel *Panel
	Light *LightAim

	scr    Screen
	resize func(cols, rows int)
	log    *slog.Logger
	now    func() time.Time

	last     image.Image
	errMsg   string
	errUntil time.Time
}

// NewSurface wraps scr. resize is called on the session goroutine when the
// terminal size changes, before the next frame is drawn.
func NewSurface(scr Screen, resize func(cols, rows int), logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Surface{
		scr:    scr,
		resize: resize,
		log:    logger,
		now:    time.Now,
	}
}

// Present draws img and the overlays and flushes the screen.
func (s *Surface) Present(img image.Image) error {
	s.last = img
	if s.HUD != nil {
		s.HUD.Frame(s.now())
	}
	return s.draw()
}

// ShowError puts err on the output line. The last frame stays on screen.
func (s *Surface) ShowError(err error) {
	s.errMsg = err.Error()
	s.errUntil = s.now().Add(errorTTL)
	if derr := s.draw(); derr != nil {
		s.log.Warn("draw error line", "err", derr)
	}
}

// Handle is a viewport.Handler for terminal concerns: it applies resizes
// and toggles the HUD with "?".
func (s *Surface) Handle(ev viewport.Event) bool {
	switch ev := ev.(type) {
	case viewport.Resize:
		if s.resize != nil && ev.Width > 0 && ev.Height > 0 {
			s.resize(ev.Width, (ev.Height+1)/2)
		}
	case viewport.KeyDown:
		if ev.Key == "?" && s.HUD != nil {
			s.HUD.Show = !s.HUD.Show
			if err := s.draw(); err != nil {
				s.log.Warn("redraw hud", "err", err)
			}
			return false
		}
	}
	return true
}

func (s *Surface) draw() error {
	area := s.scr.Bounds()
	if s.last != nil {
		DrawImage(s.scr, s.last, area)
	}
	s.drawOverlay(area)
	return s.scr.Display()
}

func (s *Surface) drawOverlay(area uv.Rectangle) {
	width := area.Max.X - area.Min.X
	top, bottom := area.Min.Y, area.Max.Y-1
	if width <= 0 || bottom < top {
		return
	}
	line := func(y int, str string) {
		uv.NewStyledString(str).Draw(s.scr, uv.Rect(area.Min.X, y, width, 1))
	}

	switch {
	case s.Light != nil && s.Light.Active():
		line(bottom, spread(width, "", lightStyle.Render(lightHintMsg), ""))
		bottom--
	case s.HUD != nil && s.HUD.Show:
		line(top, s.HUD.TopLine(width))
		line(bottom, s.HUD.BottomLine(width))
		top++
		bottom--
	}

	if s.Panel != nil && s.Panel.Show {
		view := s.Panel.View()
		w, h := lipgloss.Width(view), lipgloss.Height(view)
		x := max(area.Max.X-w, area.Min.X)
		uv.NewStyledString(view).Draw(s.scr, uv.Rect(x, top, min(w, width), min(h, bottom-top+1)))
	}

	if s.errMsg != "" && s.now().Before(s.errUntil) && bottom >= top {
		line(bottom, errorStyle.Width(width).MaxWidth(width).Render(" render error: "+s.errMsg))
	}
}
