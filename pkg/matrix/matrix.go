// Package matrix drives a multiplexed 5x5 LED matrix.
//
// The logical grid is always 5x5; the electrical wiring is described by a
// Layout. A periodic timer callback scans one electrical row per tick: rows
// are active high and columns are active low, so a lit LED has its row line
// high and its column line low.
//
// The framebuffer is written by the foreground API and read by the refresh
// callback without a lock. Every cell is an independent atomic boolean, which
// is the whole memory-ordering contract: a frame written with SetRaw may be
// scanned while half updated, showing a single mixed frame, but no cell is
// ever torn.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fcurrie/ledmatrix-golang/pkg/timer"
)

const (
	// Width and Height of the logical grid.
	Width  = 5
	Height = 5
	// Pixels is the number of logical pixels.
	Pixels = Width * Height
)

var (
	ErrNoLayout      = errors.New("no layout")
	ErrNoTimer       = errors.New("no timer")
	ErrPinCount      = errors.New("pin count does not match layout")
	ErrUnknownLayout = errors.New("unknown layout")
)

// Pin is a push-pull output line.
type Pin interface {
	ConfigureOutput(initial bool) error
	Set(level bool) error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds everything New needs.
type Config struct {
	Layout Layout
	// Rows and Cols are the electrical lines, ordered as the layout numbers them.
	Rows []Pin
	Cols []Pin
	// Timer drives the refresh; Channel is the compare channel used on it.
	Timer   timer.Dev
	Channel int
	// Interval between row switches. Zero picks DefaultInterval(Layout).
	Interval time.Duration
	// Font defaults to DefaultFont.
	Font Font
	// Sleep defaults to a context aware time.Timer wait.
	Sleep SleepFunc
	Log   *zap.SugaredLogger
}

// Matrix is the driver for one display.
type Matrix struct {
	layout   Layout
	rows     []Pin
	cols     []Pin
	timer    timer.Dev
	channel  int
	interval uint32
	font     Font
	sleep    SleepFunc
	log      *zap.SugaredLogger

	fb     []atomic.Bool
	cursor atomic.Uint32
	closed atomic.Bool

	refreshes atomic.Uint64
	faults    atomic.Uint64
}

// Status is a point-in-time view of the refresh engine.
type Status struct {
	Layout    string        `json:"layout"`
	Rows      int           `json:"rows"`
	Cols      int           `json:"cols"`
	Cursor    int           `json:"cursor"`
	Refreshes uint64        `json:"refreshes"`
	Faults    uint64        `json:"faults"`
	Interval  time.Duration `json:"interval"`
}

// New configures the row lines low and the column lines high, clears the
// framebuffer and starts the refresh timer.
func New(cfg Config) (*Matrix, error) {
	if cfg.Layout == nil {
		return nil, ErrNoLayout
	}
	if cfg.Timer == nil {
		return nil, ErrNoTimer
	}
	if len(cfg.Rows) != cfg.Layout.Rows() || len(cfg.Cols) != cfg.Layout.Cols() {
		return nil, fmt.Errorf("%w: layout %s wants %dx%d, got %dx%d", ErrPinCount,
			cfg.Layout.Name(), cfg.Layout.Rows(), cfg.Layout.Cols(), len(cfg.Rows), len(cfg.Cols))
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval(cfg.Layout)
	}
	if cfg.Font == nil {
		cfg.Font = DefaultFont
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}

	interval := timer.Ticks(cfg.Interval, timer.MHz)
	if interval == 0 {
		interval = 1
	}

	m := &Matrix{
		layout:   cfg.Layout,
		rows:     cfg.Rows,
		cols:     cfg.Cols,
		timer:    cfg.Timer,
		channel:  cfg.Channel,
		interval: interval,
		font:     cfg.Font,
		sleep:    cfg.Sleep,
		log:      cfg.Log,
		fb:       make([]atomic.Bool, cfg.Layout.Rows()*cfg.Layout.Cols()),
	}

	for i, p := range m.rows {
		if err := p.ConfigureOutput(false); err != nil {
			return nil, fmt.Errorf("failed to configure row %d: %w", i, err)
		}
	}
	for i, p := range m.cols {
		if err := p.ConfigureOutput(true); err != nil {
			return nil, fmt.Errorf("failed to configure column %d: %w", i, err)
		}
	}

	if err := m.timer.Init(timer.MHz, m.refresh); err != nil {
		return nil, fmt.Errorf("failed to initialise refresh timer: %w", err)
	}
	if err := m.timer.Set(m.channel, m.interval); err != nil {
		return nil, fmt.Errorf("failed to arm refresh timer: %w", err)
	}

	m.log.Infow("led matrix started",
		"layout", m.layout.Name(),
		"interval", cfg.Interval,
		"channel", m.channel)
	return m, nil
}

// PixelOn lights logical (row, col). Coordinates outside the grid are ignored.
func (m *Matrix) PixelOn(row, col int) { m.setPixel(row, col, true) }

// PixelOff clears logical (row, col). Coordinates outside the grid are ignored.
func (m *Matrix) PixelOff(row, col int) { m.setPixel(row, col, false) }

func (m *Matrix) setPixel(row, col int, lit bool) {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		return
	}
	m.fb[m.layout.Index(row, col)].Store(lit)
}

// Pixel reports whether logical (row, col) is lit; false outside the grid.
func (m *Matrix) Pixel(row, col int) bool {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		return false
	}
	return m.fb[m.layout.Index(row, col)].Load()
}

// SetRaw replaces the whole frame. buf is row-major; any nonzero byte is lit.
func (m *Matrix) SetRaw(buf [Pixels]byte) {
	for i, v := range buf {
		m.fb[m.layout.Index(i/Width, i%Width)].Store(v != 0)
	}
}

// SetChar shows the glyph for c.
func (m *Matrix) SetChar(c byte) {
	m.SetRaw(Expand(m.font.Glyph(c)))
}

// Clear blanks the frame.
func (m *Matrix) Clear() {
	m.SetRaw([Pixels]byte{})
}

// Frame returns the logical frame, row-major, 1 for lit.
func (m *Matrix) Frame() [Pixels]byte {
	var buf [Pixels]byte
	for i := range buf {
		if m.fb[m.layout.Index(i/Width, i%Width)].Load() {
			buf[i] = 1
		}
	}
	return buf
}

// Layout returns the electrical layout in use.
func (m *Matrix) Layout() Layout { return m.layout }

// Status reports the refresh engine counters.
func (m *Matrix) Status() Status {
	return Status{
		Layout:    m.layout.Name(),
		Rows:      m.layout.Rows(),
		Cols:      m.layout.Cols(),
		Cursor:    int(m.cursor.Load()),
		Refreshes: m.refreshes.Load(),
		Faults:    m.faults.Load(),
		Interval:  timer.Duration(m.interval, timer.MHz),
	}
}

// Close stops refreshing and drives every line inactive. It may race a refresh
// already in progress; that refresh releases the lines again before returning.
// The timer itself is left to its owner.
func (m *Matrix) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	var errs []error
	if err := m.timer.Clear(m.channel); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear refresh timer: %w", err))
	}
	for _, p := range m.rows {
		if err := p.Set(false); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range m.cols {
		if err := p.Set(true); err != nil {
			errs = append(errs, err)
		}
	}
	m.log.Infow("led matrix stopped", "refreshes", m.refreshes.Load(), "faults", m.faults.Load())
	return errors.Join(errs...)
}

// Size implements drivers.Displayer.
func (m *Matrix) Size() (x, y int16) { return Width, Height }

// SetPixel implements drivers.Displayer. Any non-black colour lights the pixel.
func (m *Matrix) SetPixel(x, y int16, c color.RGBA) {
	m.setPixel(int(y), int(x), c.R|c.G|c.B != 0)
}

// Display implements drivers.Displayer. The refresh timer shows every write
// immediately, so there is nothing to flush.
func (m *Matrix) Display() error { return nil }

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
