// Package gpio provides push-pull output lines for driving LED rows and
// columns.
//
// Several backends are available: the Linux GPIO character device
// (go-gpiocdev), the legacy sysfs interface, periph.io, and an in-memory fake
// for tests and simulation. All of them satisfy Output.
package gpio

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Driver names accepted by Open.
const (
	DriverCdev   = "cdev"
	DriverSysfs  = "sysfs"
	DriverPeriph = "periph"
	DriverFake   = "fake"
)

// DefaultConsumer labels the lines this process requests.
const DefaultConsumer = "ledmatrix"

var (
	ErrUnsupported   = errors.New("gpio driver unsupported on this platform")
	ErrUnknownDriver = errors.New("unknown gpio driver")
	ErrUnknownPin    = errors.New("unknown pin")
	ErrClosed        = errors.New("pin closed")
)

// Output is a single output line.
type Output interface {
	// ConfigureOutput switches the line to output and drives it to initial.
	ConfigureOutput(initial bool) error
	// Set drives the line high (true) or low (false).
	Set(level bool) error
	// Close releases the line.
	Close() error
}

// Options tunes Open.
type Options struct {
	Chip      string // gpiochip name for cdev
	Consumer  string // consumer label for cdev
	SysfsRoot string // sysfs root, defaults to /sys/class/gpio
	Log       *zap.SugaredLogger
}

// Open opens one line per name using driver. On failure every line opened so
// far is closed again.
func Open(driver string, names []string, opts Options) ([]Output, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Consumer == "" {
		opts.Consumer = DefaultConsumer
	}

	outs := make([]Output, 0, len(names))
	for _, name := range names {
		o, err := openOne(driver, name, opts)
		if err != nil {
			CloseAll(outs, opts.Log)
			return nil, fmt.Errorf("failed to open %s pin %q: %w", driver, name, err)
		}
		outs = append(outs, o)
	}
	opts.Log.Debugw("gpio lines opened", "driver", driver, "pins", names)
	return outs, nil
}

// CloseAll closes every output, logging failures.
func CloseAll(outs []Output, log *zap.SugaredLogger) {
	for _, o := range outs {
		if o == nil {
			continue
		}
		if err := o.Close(); err != nil && log != nil {
			log.Warnw("failed to close gpio line", "error", err)
		}
	}
}

func openOne(driver, name string, opts Options) (Output, error) {
	switch driver {
	case DriverCdev:
		offset, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPin, err)
		}
		return OpenLine(opts.Chip, offset, opts.Consumer)
	case DriverSysfs:
		n, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPin, err)
		}
		return NewSysfsPin(n, SysfsOptions{Root: opts.SysfsRoot, Log: opts.Log})
	case DriverPeriph:
		return OpenPeriph(name)
	case DriverFake:
		return NewFakePin(name), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
