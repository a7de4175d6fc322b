package term

import (
	"image"
	"image/color"
	"slices"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/glance/pkg/viewport"
)

type cellGrid map[[2]int]*uv.Cell

func (g cellGrid) SetCell(x, y int, c *uv.Cell) { g[[2]int{x, y}] = c }

func TestDrawImageHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	top := color.RGBA{255, 0, 0, 255}
	bot := color.RGBA{0, 0, 255, 255}
	img.SetRGBA(0, 0, top)
	img.SetRGBA(0, 1, bot)
	img.SetRGBA(1, 2, top)

	g := cellGrid{}
	DrawImage(g, img, uv.Rect(0, 0, 5, 5))

	require.Len(t, g, 4, "2 columns x 2 rows; the image bounds the area")
	c := g[[2]int{0, 0}]
	assert.Equal(t, upperHalf, c.Content)
	assert.Equal(t, top, c.Style.Fg)
	assert.Equal(t, bot, c.Style.Bg)

	// Odd height: the last row has no bottom pixel.
	last := g[[2]int{1, 1}]
	assert.Equal(t, top, last.Style.Fg)
	assert.Nil(t, last.Style.Bg)

	// Transparent pixels fall through to the terminal background.
	assert.Nil(t, g[[2]int{1, 0}].Style.Fg)
}

func TestPixelSize(t *testing.T) {
	w, h := PixelSize(80, 24)
	assert.Equal(t, 80, w)
	assert.Equal(t, 48, h)
	w, h = PixelSize(0, 0)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

type fakeKey []string

func (k fakeKey) MatchString(s ...string) bool {
	for _, x := range s {
		if slices.Contains(k, x) {
			return true
		}
	}
	return false
}

func (k fakeKey) String() string { return k[0] }

func TestKeyName(t *testing.T) {
	assert.Equal(t, "w", KeyName(fakeKey{"w"}))
	assert.Equal(t, "shift", KeyName(fakeKey{"leftshift"}))
	assert.Equal(t, "?", KeyName(fakeKey{"shift+/"}))
	assert.Equal(t, "esc", KeyName(fakeKey{"escape"}))
	assert.Equal(t, "space", KeyName(fakeKey{"space"}))
}

func TestTranslateMouse(t *testing.T) {
	assert.Equal(t,
		viewport.PointerDown{X: 3, Y: 8, Button: viewport.ButtonLeft, Shift: true},
		Translate(uv.MouseClickEvent{X: 3, Y: 4, Button: uv.MouseLeft, Mod: uv.ModShift}))
	assert.Equal(t,
		viewport.PointerUp{X: 3, Y: 8, Button: viewport.ButtonRight},
		Translate(uv.MouseReleaseEvent{X: 3, Y: 4, Button: uv.MouseRight}))
	assert.Equal(t, viewport.PointerMove{X: 1, Y: 2}, Translate(uv.MouseMotionEvent{X: 1, Y: 1}))
	assert.Equal(t, viewport.Wheel{Delta: 1}, Translate(uv.MouseWheelEvent{Button: uv.MouseWheelUp}))
	assert.Equal(t, viewport.Wheel{Delta: -1}, Translate(uv.MouseWheelEvent{Button: uv.MouseWheelDown}))
}

func TestTranslateResizeAndUnknown(t *testing.T) {
	assert.Equal(t, viewport.Resize{Width: 80, Height: 48}, Translate(uv.WindowSizeEvent{Width: 80, Height: 24}))
	assert.Nil(t, Translate("not an event"))
	assert.Nil(t, Translate(nil))
}
