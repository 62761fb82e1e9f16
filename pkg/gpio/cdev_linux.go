//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Line is an output line on a GPIO character device.
type Line struct {
	offset int
	line   *gpiocdev.Line
}

// OpenLine requests offset on chip (e.g. "gpiochip0") as an output driven low.
func OpenLine(chip string, offset int, consumer string) (*Line, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request line %d on %s: %w", offset, chip, err)
	}
	return &Line{offset: offset, line: l}, nil
}

func (l *Line) ConfigureOutput(initial bool) error {
	if l.line == nil {
		return ErrClosed
	}
	return l.line.Reconfigure(gpiocdev.AsOutput(boolToInt(initial)))
}

func (l *Line) Set(level bool) error {
	if l.line == nil {
		return ErrClosed
	}
	return l.line.SetValue(boolToInt(level))
}

func (l *Line) Close() error {
	if l.line == nil {
		return nil
	}
	err := l.line.Close()
	l.line = nil
	return err
}
