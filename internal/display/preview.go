package display

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

// Preview renders frames as images of round LEDs.
type Preview struct {
	// Cell is the size in pixels of one LED cell.
	Cell int
	On   color.Color
	Off  color.Color
	Back color.Color
}

// DefaultPreview looks like a micro:bit front panel.
var DefaultPreview = Preview{
	Cell: 32,
	On:   color.RGBA{R: 255, G: 32, B: 16, A: 255},
	Off:  color.RGBA{R: 48, G: 16, B: 16, A: 255},
	Back: color.Black,
}

// Image draws frame and returns the result.
func (p Preview) Image(frame [matrix.Pixels]byte) image.Image {
	return p.draw(frame).Image()
}

// WritePNG encodes frame as a PNG to w.
func (p Preview) WritePNG(w io.Writer, frame [matrix.Pixels]byte) error {
	return p.draw(frame).EncodePNG(w)
}

func (p Preview) draw(frame [matrix.Pixels]byte) *gg.Context {
	cell := p.Cell
	if cell <= 0 {
		cell = DefaultPreview.Cell
	}
	dc := gg.NewContext(cell*matrix.Width, cell*matrix.Height)
	dc.SetColor(orDefault(p.Back, DefaultPreview.Back))
	dc.Clear()

	radius := float64(cell) * 0.35
	for i, v := range frame {
		x := float64(i%matrix.Width*cell) + float64(cell)/2
		y := float64(i/matrix.Width*cell) + float64(cell)/2
		if v != 0 {
			dc.SetColor(orDefault(p.On, DefaultPreview.On))
		} else {
			dc.SetColor(orDefault(p.Off, DefaultPreview.Off))
		}
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}
	return dc
}

func orDefault(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}
