package matrix

import (
	"errors"
	"image/color"
	"testing"

	"github.com/fcurrie/ledmatrix-golang/pkg/timer"
)

func TestNew(t *testing.T) {
	_, rows3 := fakePins("row", 3)
	_, cols9 := fakePins("col", 9)
	_, cols5 := fakePins("col", 5)

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid 3x9",
			cfg:  Config{Layout: Layout3x9, Rows: rows3, Cols: cols9, Timer: timer.NewFake(32)},
		},
		{
			name:    "no layout",
			cfg:     Config{Rows: rows3, Cols: cols9, Timer: timer.NewFake(32)},
			wantErr: ErrNoLayout,
		},
		{
			name:    "no timer",
			cfg:     Config{Layout: Layout3x9, Rows: rows3, Cols: cols9},
			wantErr: ErrNoTimer,
		},
		{
			name:    "wrong column count",
			cfg:     Config{Layout: Layout3x9, Rows: rows3, Cols: cols5, Timer: timer.NewFake(32)},
			wantErr: ErrPinCount,
		},
		{
			name:    "bad channel",
			cfg:     Config{Layout: Layout3x9, Rows: rows3, Cols: cols9, Timer: timer.NewFake(32), Channel: timer.DefaultChannels},
			wantErr: timer.ErrInvalidChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if m == nil {
				t.Fatal("New() returned nil matrix when no error expected")
			}
			_ = m.Close()
		})
	}
}

func TestNewDrivesLinesInactive(t *testing.T) {
	for _, l := range layouts {
		t.Run(l.Name(), func(t *testing.T) {
			r := newRig(t, l, nil)
			for i, p := range r.rows {
				if !p.Configured() || p.Level() {
					t.Errorf("row %d configured=%v level=%v, want configured low", i, p.Configured(), p.Level())
				}
			}
			for i, p := range r.cols {
				if !p.Configured() || !p.Level() {
					t.Errorf("col %d configured=%v level=%v, want configured high", i, p.Configured(), p.Level())
				}
			}
			if r.m.Frame() != [Pixels]byte{} {
				t.Error("framebuffer not blank after New")
			}
			if !r.timer.Armed(0) {
				t.Error("refresh channel not armed")
			}
		})
	}
}

func TestPixelOnOff(t *testing.T) {
	for _, l := range layouts {
		t.Run(l.Name(), func(t *testing.T) {
			r := newRig(t, l, nil)
			for row := 0; row < Height; row++ {
				for col := 0; col < Width; col++ {
					r.m.PixelOn(row, col)
					if !r.m.fb[l.Index(row, col)].Load() {
						t.Errorf("PixelOn(%d, %d) did not light cell %d", row, col, l.Index(row, col))
					}
					if !r.m.Pixel(row, col) {
						t.Errorf("Pixel(%d, %d) = false after PixelOn", row, col)
					}
					r.m.PixelOff(row, col)
					if r.m.fb[l.Index(row, col)].Load() {
						t.Errorf("PixelOff(%d, %d) left cell %d lit", row, col, l.Index(row, col))
					}
				}
			}
		})
	}
}

func TestPixelOutOfRangeIsIgnored(t *testing.T) {
	r := newRig(t, Layout3x9, nil)
	r.m.PixelOn(1, 1)
	before := r.m.Frame()

	coords := [][2]int{{5, 0}, {0, 5}, {-1, 0}, {0, -1}, {5, 5}, {100, 2}}
	for _, c := range coords {
		r.m.PixelOn(c[0], c[1])
		r.m.PixelOff(c[0], c[1])
		if r.m.Pixel(c[0], c[1]) {
			t.Errorf("Pixel(%d, %d) = true outside the grid", c[0], c[1])
		}
	}
	if got := r.m.Frame(); got != before {
		t.Errorf("out of range writes changed the frame: %v -> %v", before, got)
	}
	for _, idx := range []int{16, 17} {
		if r.m.fb[idx].Load() {
			t.Errorf("unwired cell %d lit", idx)
		}
	}
}

func TestSetRaw(t *testing.T) {
	var buf [Pixels]byte
	for i := range buf {
		switch i % 3 {
		case 0:
			buf[i] = 1
		case 1:
			buf[i] = 0xff
		}
	}

	for _, l := range layouts {
		t.Run(l.Name(), func(t *testing.T) {
			r := newRig(t, l, nil)
			r.m.SetRaw(buf)
			for i, v := range buf {
				row, col := i/Width, i%Width
				if got := r.m.fb[l.Index(row, col)].Load(); got != (v != 0) {
					t.Errorf("cell (%d, %d) lit = %v, want %v", row, col, got, v != 0)
				}
			}
			frame := r.m.Frame()
			for i, v := range buf {
				want := byte(0)
				if v != 0 {
					want = 1
				}
				if frame[i] != want {
					t.Errorf("Frame()[%d] = %d, want %d", i, frame[i], want)
				}
			}

			r.m.Clear()
			if r.m.Frame() != [Pixels]byte{} {
				t.Error("Clear() left pixels lit")
			}
		})
	}
}

func TestSetCharSpaceIsBlank(t *testing.T) {
	r := newRig(t, Layout3x9, nil)
	r.m.SetRaw([Pixels]byte{1, 1, 1, 1, 1})
	r.m.SetChar(' ')
	if r.m.Frame() != [Pixels]byte{} {
		t.Errorf("SetChar(' ') frame = %v, want blank", r.m.Frame())
	}
	if Expand(DefaultFont.Glyph(' ')) != [Pixels]byte{} {
		t.Error("space glyph expands to lit pixels")
	}
}

func TestSetCharRoundTrip(t *testing.T) {
	r := newRig(t, Layout5x5, nil)
	for c := byte(firstChar); c <= lastChar; c++ {
		r.m.SetChar(c)
		g := DefaultFont.Glyph(c)
		for row := 0; row < Height; row++ {
			for col := 0; col < Width; col++ {
				want := g[row]&(1<<col) != 0
				if got := r.m.Pixel(row, col); got != want {
					t.Errorf("SetChar(%q) pixel (%d, %d) = %v, want %v", c, row, col, got, want)
				}
			}
		}
	}
}

func TestDisplayer(t *testing.T) {
	r := newRig(t, Layout3x9, nil)
	if w, h := r.m.Size(); w != Width || h != Height {
		t.Errorf("Size() = %dx%d, want %dx%d", w, h, Width, Height)
	}
	r.m.SetPixel(3, 1, color.RGBA{R: 10, A: 255})
	if !r.m.Pixel(1, 3) {
		t.Error("SetPixel(3, 1, red) did not light row 1 col 3")
	}
	r.m.SetPixel(3, 1, color.RGBA{A: 255})
	if r.m.Pixel(1, 3) {
		t.Error("SetPixel(3, 1, black) left row 1 col 3 lit")
	}
	r.m.SetPixel(7, 7, color.RGBA{R: 255})
	if err := r.m.Display(); err != nil {
		t.Errorf("Display() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	r := newRig(t, Layout5x5, nil)
	r.m.SetRaw([Pixels]byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	for i := 0; i < 3; i++ {
		r.tick()
	}
	if err := r.m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := r.activeRows(); len(got) != 0 {
		t.Errorf("rows %v still active after Close", got)
	}
	if got := r.sinkingCols(); len(got) != 0 {
		t.Errorf("cols %v still sinking after Close", got)
	}
	if r.timer.Armed(0) {
		t.Error("refresh channel still armed after Close")
	}
	if err := r.m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStatus(t *testing.T) {
	r := newRig(t, Layout3x9, nil)
	r.tick()
	r.tick()
	st := r.m.Status()
	if st.Layout != "3x9" || st.Rows != 3 || st.Cols != 9 {
		t.Errorf("Status() layout = %s %dx%d, want 3x9", st.Layout, st.Rows, st.Cols)
	}
	if st.Refreshes != 2 || st.Cursor != 2 {
		t.Errorf("Status() refreshes=%d cursor=%d, want 2/2", st.Refreshes, st.Cursor)
	}
	if st.Interval != DefaultInterval(Layout3x9) {
		t.Errorf("Status() interval = %v, want %v", st.Interval, DefaultInterval(Layout3x9))
	}
}
