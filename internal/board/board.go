// Package board wires GPIO lines, a software timer and the matrix driver
// together from a configuration.
package board

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"tinygo.org/x/tinyfont"

	"github.com/fcurrie/ledmatrix-golang/internal/config"
	"github.com/fcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fcurrie/ledmatrix-golang/pkg/matrix"
	"github.com/fcurrie/ledmatrix-golang/pkg/timer"
)

// Board owns everything behind one display.
type Board struct {
	Matrix *matrix.Matrix

	rows  []gpio.Output
	cols  []gpio.Output
	timer *timer.Soft
	log   *zap.SugaredLogger
}

// Open requests the configured lines and starts refreshing.
func Open(cfg *config.Config, log *zap.SugaredLogger) (*Board, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	rowNames, colNames, err := cfg.Pins()
	if err != nil {
		return nil, err
	}

	opts := gpio.Options{
		Chip:      cfg.GPIO.Chip,
		SysfsRoot: cfg.GPIO.SysfsRoot,
		Log:       log.Named("gpio"),
	}
	b := &Board{log: log}
	if b.rows, err = gpio.Open(cfg.GPIO.Driver, rowNames, opts); err != nil {
		return nil, fmt.Errorf("failed to open row lines: %w", err)
	}
	if b.cols, err = gpio.Open(cfg.GPIO.Driver, colNames, opts); err != nil {
		gpio.CloseAll(b.rows, log)
		return nil, fmt.Errorf("failed to open column lines: %w", err)
	}

	b.timer = timer.NewSoft(log.Named("timer"))
	b.Matrix, err = matrix.New(matrix.Config{
		Layout:   layout,
		Rows:     pins(b.rows),
		Cols:     pins(b.cols),
		Timer:    b.timer,
		Interval: cfg.Display.RefreshInterval(),
		Font:     FontFor(cfg.Display.Font),
		Log:      log.Named("matrix"),
	})
	if err != nil {
		b.timer.Close()
		gpio.CloseAll(b.rows, log)
		gpio.CloseAll(b.cols, log)
		return nil, err
	}
	return b, nil
}

// Lines returns the opened row and column outputs.
func (b *Board) Lines() (rows, cols []gpio.Output) { return b.rows, b.cols }

// Timer returns the refresh timer.
func (b *Board) Timer() *timer.Soft { return b.timer }

// Close stops the timer, blanks the display and releases every line. The
// interrupt goroutine has exited before the lines are driven inactive.
func (b *Board) Close() error {
	b.timer.Stop()
	err := b.timer.Close()
	if merr := b.Matrix.Close(); merr != nil {
		err = errors.Join(err, merr)
	}
	if drops := b.timer.Drops(); drops > 0 {
		b.log.Warnw("refresh expiries dropped", "count", drops)
	}
	gpio.CloseAll(b.rows, b.log)
	gpio.CloseAll(b.cols, b.log)
	return err
}

// FontFor maps a configured font name to a glyph source.
func FontFor(name string) matrix.Font {
	switch strings.ToLower(name) {
	case config.FontTomThumb:
		return matrix.TinyFont{Font: &tinyfont.TomThumb}
	default:
		return matrix.DefaultFont
	}
}

func pins(outs []gpio.Output) []matrix.Pin {
	ps := make([]matrix.Pin, len(outs))
	for i, o := range outs {
		ps[i] = o
	}
	return ps
}
