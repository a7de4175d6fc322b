package term

import (
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glance/pkg/viewport"
)

// keyMatcher is implemented by uv.KeyPressEvent and uv.KeyReleaseEvent.
type keyMatcher interface {
	MatchString(s ...string) bool
	String() string
}

// keyAliases maps terminal key spellings onto the names the router uses.
var keyAliases = []struct {
	name     string
	spelling []string
}{
	{"shift", []string{"leftshift", "rightshift", "shift"}},
	{"ctrl", []string{"leftctrl", "rightctrl", "ctrl"}},
	{"alt", []string{"leftalt", "rightalt", "alt"}},
	{"?", []string{"?", "shift+/"}},
	{"esc", []string{"esc", "escape"}},
}

// KeyName normalizes a key event to a single name such as "w", "up",
// "space" or "shift".
func KeyName(k keyMatcher) string {
	for _, a := range keyAliases {
		if k.MatchString(a.spelling...) {
			return a.name
		}
	}
	return k.String()
}

func button(b uv.MouseButton) viewport.Button {
	switch b {
	case uv.MouseLeft:
		return viewport.ButtonLeft
	case uv.MouseMiddle:
		return viewport.ButtonMiddle
	case uv.MouseRight:
		return viewport.ButtonRight
	}
	return viewport.ButtonNone
}

// Translate converts a terminal event into a viewport event, or nil when the
// event has no viewport meaning. Cell rows map onto pixel rows at twice the
// resolution.
func Translate(ev any) viewport.Event {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		w, h := PixelSize(ev.Width, ev.Height)
		return viewport.Resize{Width: w, Height: h}
	case uv.KeyPressEvent:
		return viewport.KeyDown{Key: KeyName(ev)}
	case uv.KeyReleaseEvent:
		return viewport.KeyUp{Key: KeyName(ev)}
	case uv.MouseClickEvent:
		return viewport.PointerDown{
			X:      ev.X,
			Y:      ev.Y * 2,
			Button: button(ev.Button),
			Shift:  ev.Mod&uv.ModShift != 0,
		}
	case uv.MouseReleaseEvent:
		return viewport.PointerUp{X: ev.X, Y: ev.Y * 2, Button: button(ev.Button)}
	case uv.MouseMotionEvent:
		return viewport.PointerMove{X: ev.X, Y: ev.Y * 2}
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			return viewport.Wheel{X: ev.X, Y: ev.Y * 2, Delta: 1}
		case uv.MouseWheelDown:
			return viewport.Wheel{X: ev.X, Y: ev.Y * 2, Delta: -1}
		}
	}
	return nil
}
