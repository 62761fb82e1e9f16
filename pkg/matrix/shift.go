package matrix

import (
	"context"
	"time"
)

// ShiftString scrolls s across the display from right to left, one column
// every delay. The display starts blank and a trailing blank glyph scrolls
// the text back out. It blocks until the last column has been shown.
//
// Cancelling ctx stops the scroll at the next column boundary; the frame on
// screen at that moment stays visible and ctx.Err() is returned.
func (m *Matrix) ShiftString(ctx context.Context, s string, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var cur, next [Pixels]byte
	for _, r := range s {
		next = Expand(m.font.Glyph(toByte(r)))
		if err := m.shiftIn(ctx, &cur, &next, delay); err != nil {
			return err
		}
	}
	next = Expand(m.font.Glyph(' '))
	return m.shiftIn(ctx, &cur, &next, delay)
}

// shiftIn moves cur left one column at a time, feeding in the columns of next.
func (m *Matrix) shiftIn(ctx context.Context, cur, next *[Pixels]byte, delay time.Duration) error {
	for i := 0; i < Width; i++ {
		for r := 0; r < Height; r++ {
			row := cur[r*Width : (r+1)*Width]
			copy(row, row[1:])
			row[Width-1] = next[r*Width+i]
		}
		m.SetRaw(*cur)
		if err := m.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// toByte maps runes outside Latin-1 to a byte every Font treats as blank.
func toByte(r rune) byte {
	if r < 0 || r > 0xff {
		return 0
	}
	return byte(r)
}
