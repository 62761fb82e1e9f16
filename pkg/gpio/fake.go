package gpio

import "sync"

// FakePin is an in-memory output line.
//
// History recording is off by default so a long running simulation does not
// grow without bound; tests turn it on with Record.
type FakePin struct {
	mu         sync.Mutex
	name       string
	level      bool
	configured bool
	closed     bool
	record     bool
	history    []bool
	sets       uint64
	err        error
}

// NewFakePin returns a low, unconfigured fake line.
func NewFakePin(name string) *FakePin {
	return &FakePin{name: name}
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.configured = true
	p.write(initial)
	return nil
}

func (p *FakePin) Set(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.err != nil {
		return p.err
	}
	p.sets++
	p.write(level)
	return nil
}

func (p *FakePin) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// Record enables or disables transition history.
func (p *FakePin) Record(on bool) {
	p.mu.Lock()
	p.record = on
	p.mu.Unlock()
}

// FailWith makes subsequent Set calls return err; nil restores normal behaviour.
func (p *FakePin) FailWith(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Level returns the current level.
func (p *FakePin) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Configured reports whether ConfigureOutput has been called.
func (p *FakePin) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

// Closed reports whether Close has been called.
func (p *FakePin) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Sets returns the number of successful Set calls.
func (p *FakePin) Sets() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

// History returns a copy of the recorded levels.
func (p *FakePin) History() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.history...)
}

func (p *FakePin) Name() string { return p.name }

func (p *FakePin) write(level bool) {
	p.level = level
	if p.record {
		p.history = append(p.history, level)
	}
}
