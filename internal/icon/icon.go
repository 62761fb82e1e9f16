// Package icon turns SVG artwork into 5x5 frames.
//
// An SVG is rendered at eight times the grid resolution and each LED is lit
// when at least half of its cell is covered. A handful of icons ship with the
// package.
package icon

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

const oversample = 8

var ErrUnknown = errors.New("unknown icon")

//go:embed svg/*.svg
var builtin embed.FS

// Rasterize renders the SVG read from r into a frame.
func Rasterize(r io.Reader) ([matrix.Pixels]byte, error) {
	var frame [matrix.Pixels]byte

	svg, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return frame, fmt.Errorf("failed to parse svg: %w", err)
	}
	if svg.ViewBox.W <= 0 || svg.ViewBox.H <= 0 {
		return frame, errors.New("svg has no viewBox")
	}

	w, h := matrix.Width*oversample, matrix.Height*oversample
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	svg.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	svg.Draw(rasterx.NewDasher(w, h, scanner), 1)

	for row := 0; row < matrix.Height; row++ {
		for col := 0; col < matrix.Width; col++ {
			if covered(img, col*oversample, row*oversample) {
				frame[row*matrix.Width+col] = 1
			}
		}
	}
	return frame, nil
}

// Get returns a built-in icon by name.
func Get(name string) ([matrix.Pixels]byte, error) {
	data, err := builtin.ReadFile(path.Join("svg", strings.ToLower(name)+".svg"))
	if err != nil {
		return [matrix.Pixels]byte{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return Rasterize(bytes.NewReader(data))
}

// Names lists the built-in icons.
func Names() []string {
	entries, _ := builtin.ReadDir("svg")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".svg"))
	}
	sort.Strings(names)
	return names
}

func covered(img *image.RGBA, x0, y0 int) bool {
	var sum int
	for y := y0; y < y0+oversample; y++ {
		for x := x0; x < x0+oversample; x++ {
			sum += int(img.RGBAAt(x, y).A)
		}
	}
	return sum*2 >= 0xff*oversample*oversample
}
