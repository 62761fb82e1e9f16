package matrix

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var (
	_ drivers.Displayer = (*Matrix)(nil)
	_ drivers.Displayer = (*glyphCanvas)(nil)
)

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// TinyFont renders glyphs from a tinyfont font, e.g. &tinyfont.TomThumb.
// Characters outside printable ASCII render as a space.
type TinyFont struct {
	Font tinyfont.Fonter
	// X is the left edge passed to tinyfont.
	X int16
	// Baseline is the y coordinate passed to tinyfont. Zero means Height.
	Baseline int16
}

func (f TinyFont) Glyph(c byte) Glyph {
	if c < firstChar || c > lastChar {
		c = ' '
	}
	y := f.Baseline
	if y == 0 {
		y = Height
	}
	var cv glyphCanvas
	tinyfont.DrawChar(&cv, f.Font, f.X, y, rune(c), white)
	return cv.g
}

// glyphCanvas is a 5x5 drivers.Displayer that records lit pixels as a Glyph.
type glyphCanvas struct {
	g Glyph
}

func (cv *glyphCanvas) Size() (x, y int16) { return Width, Height }

func (cv *glyphCanvas) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	if c.R|c.G|c.B == 0 {
		cv.g[y] &^= 1 << x
		return
	}
	cv.g[y] |= 1 << x
}

func (cv *glyphCanvas) Display() error { return nil }
