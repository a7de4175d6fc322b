// Package term presents viewport frames on a true-color terminal and turns
// terminal input into viewport events.
package term

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalf is drawn with fg=top pixel and bg=bottom pixel.
const upperHalf = "▀"

// CellSetter is the part of a screen the image painter writes to.
type CellSetter interface {
	SetCell(x, y int, c *uv.Cell)
}

// PixelSize returns the image size that fills a cols x rows terminal area.
// Each cell shows two vertically stacked pixels.
func PixelSize(cols, rows int) (int, int) {
	return max(cols, 1), max(rows*2, 1)
}

// DrawImage paints img into area using half-block cells. Pixels beyond the
// image are left untouched.
func DrawImage(scr CellSetter, img image.Image, area uv.Rectangle) {
	b := img.Bounds()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		botY := topY + 1
		if topY >= b.Max.Y {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}
			top := img.At(x, topY)
			var bot color.Color
			if botY < b.Max.Y {
				bot = img.At(x, botY)
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style: uv.Style{
					Fg: opaque(top),
					Bg: opaque(bot),
				},
			})
		}
	}
}

// opaque drops fully transparent colors so the terminal background shows.
func opaque(c color.Color) color.Color {
	if c == nil {
		return nil
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return nil
	}
	return c
}
