// Package anim provides simple generated animations for the 5x5 display.
package anim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aykevl/ledsgo"

	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
)

// DefaultFPS is the frame rate used by Play when none is given.
const DefaultFPS = 15

var ErrUnknown = errors.New("unknown animation")

// Animation produces the frame to show at time t since it started.
type Animation interface {
	Frame(t time.Duration) [matrix.Pixels]byte
}

// Sink receives whole frames.
type Sink interface {
	SetRaw(buf [matrix.Pixels]byte)
}

// Play writes frames of a to s at fps until ctx is done.
func Play(ctx context.Context, s Sink, a Animation, fps int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	s.SetRaw(a.Frame(0))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.SetRaw(a.Frame(now.Sub(start)))
		}
	}
}

// ByName returns a fresh animation: "noise" or "rain".
func ByName(name string) (Animation, error) {
	switch strings.ToLower(name) {
	case "noise":
		return &Noise{Threshold: 0xa000, Spread: 12, Speed: 18}, nil
	case "rain":
		return NewRain(time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// Names lists the animations ByName knows.
func Names() []string { return []string{"noise", "rain"} }

// Noise lights the pixels where 3D simplex noise crosses a threshold, with
// time as the third axis.
type Noise struct {
	// Threshold is compared with the noise value as an unsigned 16 bit number.
	Threshold uint16
	// Spread scales pixel coordinates; higher is more detailed.
	Spread uint
	// Speed divides time; higher is slower.
	Speed uint
}

func (n *Noise) Frame(t time.Duration) [matrix.Pixels]byte {
	var frame [matrix.Pixels]byte
	z := uint32(int64(t) >> n.Speed)
	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			v := uint16(ledsgo.Noise3(z, uint32(x)<<n.Spread, uint32(y)<<n.Spread))
			if v >= n.Threshold {
				frame[y*matrix.Width+x] = 1
			}
		}
	}
	return frame
}

// Rain drops one-pixel raindrops with a short tail down random columns.
type Rain struct {
	// Chance is the probability per step that an empty column starts a drop.
	Chance float64
	// Step is the time a drop takes to fall one row.
	Step time.Duration

	rng   *rand.Rand
	drops [matrix.Width]int
	steps int64
}

const noDrop = -1

// NewRain returns a rain animation seeded with seed.
func NewRain(seed int64) *Rain {
	r := &Rain{
		Chance: 0.3,
		Step:   120 * time.Millisecond,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for i := range r.drops {
		r.drops[i] = noDrop
	}
	return r
}

func (r *Rain) Frame(t time.Duration) [matrix.Pixels]byte {
	for want := int64(t / r.Step); r.steps < want; r.steps++ {
		r.advance()
	}

	var frame [matrix.Pixels]byte
	for col, row := range r.drops {
		if row == noDrop {
			continue
		}
		// head and tail
		for _, y := range []int{row, row - 1} {
			if y >= 0 && y < matrix.Height {
				frame[y*matrix.Width+col] = 1
			}
		}
	}
	return frame
}

func (r *Rain) advance() {
	for col, row := range r.drops {
		switch {
		case row == noDrop:
			if r.rng.Float64() < r.Chance {
				r.drops[col] = 0
			}
		case row >= matrix.Height:
			r.drops[col] = noDrop
		default:
			r.drops[col] = row + 1
		}
	}
}
