package matrix

import (
	"fmt"
	"strings"
	"time"
)

// FramePeriod is the time to scan every electrical row once. 18ms keeps the
// refresh above 50Hz.
const FramePeriod = 18 * time.Millisecond

// Layout maps the logical 5x5 grid onto the electrical row/column wiring.
type Layout interface {
	Name() string
	// Rows and Cols give the electrical grid; the framebuffer holds Rows*Cols cells.
	Rows() int
	Cols() int
	// Index returns the framebuffer cell of logical (row, col). Both must be in [0,5).
	Index(row, col int) int
}

type tableLayout struct {
	name       string
	rows, cols int
	table      [Height][Width]uint8
}

func (l *tableLayout) Name() string { return l.name }
func (l *tableLayout) Rows() int    { return l.rows }
func (l *tableLayout) Cols() int    { return l.cols }

func (l *tableLayout) Index(row, col int) int { return int(l.table[row][col]) }

// Layout3x9 is the first board revision: 25 LEDs on 3 electrical rows of 9
// columns. Cells 16 and 17 (row 1, columns 7 and 8) are not wired.
var Layout3x9 Layout = &tableLayout{
	name: "3x9",
	rows: 3,
	cols: 9,
	table: [Height][Width]uint8{
		{0, 12, 1, 13, 2},
		{21, 22, 23, 24, 25},
		{10, 8, 11, 26, 9},
		{7, 6, 5, 4, 3},
		{20, 15, 18, 14, 19},
	},
}

// Layout5x5 is the second board revision, wired as a plain 5x5 grid.
var Layout5x5 Layout = &tableLayout{
	name: "5x5",
	rows: 5,
	cols: 5,
	table: [Height][Width]uint8{
		{0, 1, 2, 3, 4},
		{5, 6, 7, 8, 9},
		{10, 11, 12, 13, 14},
		{15, 16, 17, 18, 19},
		{20, 21, 22, 23, 24},
	},
}

// LayoutByName resolves "3x9" (alias "v1") or "5x5" (alias "v2").
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case "3x9", "v1":
		return Layout3x9, nil
	case "5x5", "v2":
		return Layout5x5, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

// DefaultInterval spreads FramePeriod over the electrical rows of l.
func DefaultInterval(l Layout) time.Duration {
	return FramePeriod / time.Duration(l.Rows())
}
