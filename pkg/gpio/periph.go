package gpio

import (
	"fmt"
	"sync"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// PeriphPin is an output pin resolved through the periph.io registry, e.g.
// "GPIO17" or a header position such as "P1_11".
type PeriphPin struct {
	pin pgpio.PinIO
}

// OpenPeriph loads the periph.io host drivers once and looks up name.
func OpenPeriph(name string) (*PeriphPin, error) {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, fmt.Errorf("failed to initialise periph host: %w", hostErr)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPin, name)
	}
	if err := p.Out(pgpio.Low); err != nil {
		return nil, fmt.Errorf("failed to set %s as output: %w", name, err)
	}
	return &PeriphPin{pin: p}, nil
}

func (p *PeriphPin) ConfigureOutput(initial bool) error {
	return p.pin.Out(pgpio.Level(initial))
}

func (p *PeriphPin) Set(level bool) error {
	return p.pin.Out(pgpio.Level(level))
}

func (p *PeriphPin) Close() error {
	return p.pin.Halt()
}

func (p *PeriphPin) String() string { return p.pin.Name() }
