package matrix

import (
	"testing"

	"tinygo.org/x/tinyfont"
)

func TestDefaultFontFallback(t *testing.T) {
	space := DefaultFont.Glyph(' ')
	for _, c := range []byte{0x00, 0x0a, 0x1f, 0x7f, 0x80, 0xff} {
		if got := DefaultFont.Glyph(c); got != space {
			t.Errorf("Glyph(%#x) = %v, want the space glyph", c, got)
		}
	}
}

func TestDefaultFontGlyphsFitGrid(t *testing.T) {
	for c := byte(firstChar); c <= lastChar; c++ {
		g := DefaultFont.Glyph(c)
		for row, bits := range g {
			if bits&^0x1f != 0 {
				t.Errorf("Glyph(%q) row %d = %#x uses bits beyond column 4", c, row, bits)
			}
		}
		if c != ' ' && g == (Glyph{}) {
			t.Errorf("Glyph(%q) is blank", c)
		}
	}
}

func TestExpandMirroring(t *testing.T) {
	// Bit 0 is the leftmost column.
	buf := Expand(Glyph{0x01, 0x10, 0, 0, 0x1f})
	if buf[0] != 1 || buf[4] != 0 {
		t.Errorf("row 0 = %v, want only column 0 lit", buf[0:5])
	}
	if buf[Width+4] != 1 || buf[Width] != 0 {
		t.Errorf("row 1 = %v, want only column 4 lit", buf[5:10])
	}
	for col := 0; col < Width; col++ {
		if buf[4*Width+col] != 1 {
			t.Errorf("row 4 col %d not lit", col)
		}
	}
}

func TestTinyFont(t *testing.T) {
	f := TinyFont{Font: &tinyfont.TomThumb}
	if got := f.Glyph(' '); got != (Glyph{}) {
		t.Errorf("Glyph(' ') = %v, want blank", got)
	}
	if got := f.Glyph(0x01); got != f.Glyph(' ') {
		t.Errorf("Glyph(0x01) = %v, want the space glyph", got)
	}
	a := f.Glyph('A')
	if a == (Glyph{}) {
		t.Fatal("Glyph('A') is blank")
	}
	for row, bits := range a {
		if bits&^0x1f != 0 {
			t.Errorf("Glyph('A') row %d = %#x spills outside the grid", row, bits)
		}
	}
}
