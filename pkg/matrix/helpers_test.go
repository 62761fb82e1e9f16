package matrix

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fcurrie/ledmatrix-golang/pkg/timer"
)

type rig struct {
	m     *Matrix
	rows  []*gpio.FakePin
	cols  []*gpio.FakePin
	timer *timer.Fake
}

func fakePins(prefix string, n int) ([]*gpio.FakePin, []Pin) {
	fakes := make([]*gpio.FakePin, n)
	pins := make([]Pin, n)
	for i := range fakes {
		fakes[i] = gpio.NewFakePin(prefix + strconv.Itoa(i))
		pins[i] = fakes[i]
	}
	return fakes, pins
}

func newRig(t *testing.T, l Layout, sleep SleepFunc) *rig {
	t.Helper()
	rows, rowPins := fakePins("row", l.Rows())
	cols, colPins := fakePins("col", l.Cols())
	tm := timer.NewFake(32)
	m, err := New(Config{
		Layout: l,
		Rows:   rowPins,
		Cols:   colPins,
		Timer:  tm,
		Sleep:  sleep,
		Log:    zaptest.NewLogger(t).Sugar(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return &rig{m: m, rows: rows, cols: cols, timer: tm}
}

// tick advances the fake timer by exactly one refresh interval.
func (r *rig) tick() {
	r.timer.Advance(r.m.interval)
}

// activeRows returns the row lines currently driven high.
func (r *rig) activeRows() []int {
	var out []int
	for i, p := range r.rows {
		if p.Level() {
			out = append(out, i)
		}
	}
	return out
}

// sinkingCols returns the column lines currently driven low.
func (r *rig) sinkingCols() []int {
	var out []int
	for i, p := range r.cols {
		if !p.Level() {
			out = append(out, i)
		}
	}
	return out
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

var layouts = []Layout{Layout3x9, Layout5x5}
