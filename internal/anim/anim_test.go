package anim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

type frameSink struct {
	mu     sync.Mutex
	frames [][matrix.Pixels]byte
}

func (s *frameSink) SetRaw(buf [matrix.Pixels]byte) {
	s.mu.Lock()
	s.frames = append(s.frames, buf)
	s.mu.Unlock()
}

func (s *frameSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func lit(f [matrix.Pixels]byte) int {
	n := 0
	for _, v := range f {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestNoiseThreshold(t *testing.T) {
	all := &Noise{Threshold: 0, Spread: 12, Speed: 18}
	for _, ts := range []time.Duration{0, time.Second, time.Minute} {
		if n := lit(all.Frame(ts)); n != matrix.Pixels {
			t.Errorf("Frame(%v) with zero threshold lit %d pixels, want all", ts, n)
		}
	}

	n := &Noise{Threshold: 0xa000, Spread: 12, Speed: 18}
	if n.Frame(time.Second) != n.Frame(time.Second) {
		t.Error("Noise frames are not deterministic")
	}
}

func TestRain(t *testing.T) {
	r := NewRain(1)
	r.Chance = 1

	// Every column starts a drop on the first step.
	f := r.Frame(r.Step)
	for col := 0; col < matrix.Width; col++ {
		if f[col] != 1 {
			t.Errorf("column %d has no drop after one step", col)
		}
	}

	// Two steps later the heads sit on row 2 with tails on row 1.
	f = r.Frame(3 * r.Step)
	for col := 0; col < matrix.Width; col++ {
		for row := 0; row < matrix.Height; row++ {
			want := byte(0)
			if row == 1 || row == 2 {
				want = 1
			}
			if got := f[row*matrix.Width+col]; got != want {
				t.Errorf("pixel (%d, %d) = %d, want %d", row, col, got, want)
			}
		}
	}

	r.Chance = 0
	if f := r.Frame(20 * r.Step); lit(f) != 0 {
		t.Errorf("drops left after the sky cleared: %v", f)
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error = %v", name, err)
		}
	}
	if _, err := ByName("fire"); !errors.Is(err, ErrUnknown) {
		t.Errorf("ByName(fire) error = %v, want %v", err, ErrUnknown)
	}
}

func TestPlay(t *testing.T) {
	s := &frameSink{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Play(ctx, s, NewRain(7), 200) }()

	deadline := time.Now().Add(2 * time.Second)
	for s.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("Play() wrote too few frames")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Play() error = %v, want %v", err, context.Canceled)
	}
}
