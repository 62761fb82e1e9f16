package types

import (
	"context"
	"time"

	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

// Display is the foreground surface of an LED matrix
type Display interface {
	// PixelOn lights a logical pixel
	PixelOn(row, col int)
	// PixelOff clears a logical pixel
	PixelOff(row, col int)
	// SetRaw replaces the whole frame
	SetRaw(buf [matrix.Pixels]byte)
	// SetChar shows a single glyph
	SetChar(c byte)
	// ShiftString scrolls text across the display
	ShiftString(ctx context.Context, s string, delay time.Duration) error
	// Clear blanks the display
	Clear()
	// Frame returns the current logical frame
	Frame() [matrix.Pixels]byte
	// Status reports the refresh engine counters
	Status() matrix.Status
}

var _ Display = (*matrix.Matrix)(nil)
