package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
	"github.com/fcurrie/ledmatrix-golang/pkg/timer"
)

func newMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	l := matrix.Layout3x9
	pins := func(n int) []matrix.Pin {
		out := make([]matrix.Pin, n)
		for i := range out {
			out[i] = gpio.NewFakePin("")
		}
		return out
	}
	m, err := matrix.New(matrix.Config{Layout: l, Rows: pins(3), Cols: pins(9), Timer: timer.NewFake(32)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRun(t *testing.T) {
	m := newMatrix(t)
	if err := run(context.Background(), m, time.Millisecond); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if m.Frame() != [matrix.Pixels]byte{} {
		t.Error("run() left pixels lit")
	}
}

func TestRunCancelled(t *testing.T) {
	m := newMatrix(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, m, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("run() error = %v, want %v", err, context.Canceled)
	}
	if m.Frame()[0] != 1 {
		t.Error("run() did not show the first pattern")
	}
}
