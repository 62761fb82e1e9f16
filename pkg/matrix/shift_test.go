package matrix

import (
	"context"
	"errors"
	"testing"
	"time"
)

type frameRecorder struct {
	m      *Matrix
	frames [][Pixels]byte
	delays []time.Duration
	cancel func()
	stopAt int
}

func (f *frameRecorder) sleep(ctx context.Context, d time.Duration) error {
	f.frames = append(f.frames, f.m.Frame())
	f.delays = append(f.delays, d)
	if f.cancel != nil && len(f.frames) == f.stopAt {
		f.cancel()
	}
	return ctx.Err()
}

func newShiftRig(t *testing.T) (*rig, *frameRecorder) {
	rec := &frameRecorder{}
	r := newRig(t, Layout5x5, rec.sleep)
	rec.m = r.m
	return r, rec
}

func TestShiftStringFrames(t *testing.T) {
	r, rec := newShiftRig(t)
	if err := r.m.ShiftString(context.Background(), "A", 80*time.Millisecond); err != nil {
		t.Fatalf("ShiftString() error = %v", err)
	}

	// One glyph in, one blank out, five columns each.
	if len(rec.frames) != 10 {
		t.Fatalf("ShiftString(\"A\") wrote %d frames, want 10", len(rec.frames))
	}
	for i, d := range rec.delays {
		if d != 80*time.Millisecond {
			t.Errorf("delay %d = %v, want 80ms", i, d)
		}
	}

	a := Expand(DefaultFont.Glyph('A'))
	// First frame: column 0 of 'A' sits at the right edge.
	for row := 0; row < Height; row++ {
		for col := 0; col < Width-1; col++ {
			if rec.frames[0][row*Width+col] != 0 {
				t.Errorf("frame 0 pixel (%d, %d) lit, want blank", row, col)
			}
		}
		if got, want := rec.frames[0][row*Width+Width-1], a[row*Width]; got != want {
			t.Errorf("frame 0 right edge row %d = %d, want %d", row, got, want)
		}
	}
	if rec.frames[4] != a {
		t.Errorf("frame 4 = %v, want the full glyph %v", rec.frames[4], a)
	}
	if rec.frames[9] != [Pixels]byte{} {
		t.Errorf("last frame = %v, want blank", rec.frames[9])
	}
	if r.m.Frame() != [Pixels]byte{} {
		t.Error("display not blank after the scroll")
	}
}

func TestShiftStringLength(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 5},
		{text: "HI", want: 15},
		{text: "RIOT", want: 25},
		{text: "é", want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, rec := newShiftRig(t)
			if err := r.m.ShiftString(context.Background(), tt.text, time.Millisecond); err != nil {
				t.Fatalf("ShiftString() error = %v", err)
			}
			if len(rec.frames) != tt.want {
				t.Errorf("ShiftString(%q) wrote %d frames, want %d", tt.text, len(rec.frames), tt.want)
			}
		})
	}
}

func TestShiftStringCancel(t *testing.T) {
	r, rec := newShiftRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.cancel = cancel
	rec.stopAt = 3

	err := r.m.ShiftString(ctx, "HELLO", time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ShiftString() error = %v, want %v", err, context.Canceled)
	}
	if len(rec.frames) != 3 {
		t.Errorf("wrote %d frames before stopping, want 3", len(rec.frames))
	}
	if r.m.Frame() != rec.frames[2] {
		t.Error("cancelled scroll did not leave the last frame on screen")
	}
}

func TestShiftStringRealSleep(t *testing.T) {
	r := newRig(t, Layout3x9, nil)
	start := time.Now()
	if err := r.m.ShiftString(context.Background(), "", 2*time.Millisecond); err != nil {
		t.Fatalf("ShiftString() error = %v", err)
	}
	if el := time.Since(start); el < 10*time.Millisecond {
		t.Errorf("blank scroll took %v, want at least 10ms", el)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.m.ShiftString(ctx, "X", time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("ShiftString() with cancelled context error = %v, want %v", err, context.Canceled)
	}
}
