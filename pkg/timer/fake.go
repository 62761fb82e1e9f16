package timer

import "sync"

// Fake is a deterministic Dev driven by explicit calls to Advance.
//
// It emulates a free-running hardware counter Width bits wide; Read widens it
// to 32 bits through an Accumulator, the same way a low-power 16-bit timer is
// extended on real parts. Callbacks run synchronously inside Advance.
type Fake struct {
	fire sync.Mutex // serialises Advance, i.e. "interrupt context"

	mu       sync.Mutex
	width    uint
	freq     uint32
	cb       Callback
	inited   bool
	running  bool
	now      uint64
	acc      *Accumulator
	armed    [DefaultChannels]bool
	deadline [DefaultChannels]uint64
	fired    uint64
}

// NewFake returns a fake timer whose counter is width bits wide.
func NewFake(width uint) *Fake {
	return &Fake{width: width, acc: NewAccumulator(width)}
}

func (f *Fake) Init(freq uint32, cb Callback) error {
	if freq == 0 {
		return ErrInvalidFreq
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freq = freq
	f.cb = cb
	f.inited = true
	f.running = true
	f.now = 0
	f.acc = NewAccumulator(f.width)
	f.armed = [DefaultChannels]bool{}
	return nil
}

func (f *Fake) Set(channel int, timeout uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(channel); err != nil {
		return err
	}
	f.deadline[channel] = f.now + uint64(timeout)
	f.armed[channel] = true
	return nil
}

func (f *Fake) SetAbsolute(channel int, target uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(channel); err != nil {
		return err
	}
	cur := f.sample()
	f.deadline[channel] = f.now + uint64(target-cur)
	f.armed[channel] = true
	return nil
}

func (f *Fake) Clear(channel int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(channel); err != nil {
		return err
	}
	f.armed[channel] = false
	return nil
}

func (f *Fake) Read() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sample()
}

func (f *Fake) Start() {
	f.mu.Lock()
	f.running = true
	f.mu.Unlock()
}

func (f *Fake) Stop() {
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
}

// Armed reports whether channel is currently armed.
func (f *Fake) Armed(channel int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channel < 0 || channel >= DefaultChannels {
		return false
	}
	return f.armed[channel]
}

// Fired returns the number of callbacks delivered so far.
func (f *Fake) Fired() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired
}

// Advance moves the counter forward by ticks, delivering every expiry that
// falls inside the window in deadline order. A stopped timer does not move.
func (f *Fake) Advance(ticks uint32) {
	f.fire.Lock()
	defer f.fire.Unlock()

	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	end := f.now + uint64(ticks)
	for {
		ch, at := f.next(end)
		if ch < 0 {
			f.moveTo(end)
			f.mu.Unlock()
			return
		}
		f.moveTo(at)
		f.armed[ch] = false
		f.fired++
		cb := f.cb
		f.mu.Unlock()
		if cb != nil {
			cb(ch)
		}
		f.mu.Lock()
		if !f.running {
			f.mu.Unlock()
			return
		}
	}
}

// Step advances to the earliest armed deadline and fires it. It returns false
// when nothing is armed.
func (f *Fake) Step() bool {
	f.mu.Lock()
	ch, at := f.next(^uint64(0))
	if ch < 0 {
		f.mu.Unlock()
		return false
	}
	delta := at - f.now
	f.mu.Unlock()
	f.Advance(uint32(delta))
	return true
}

func (f *Fake) check(channel int) error {
	if !f.inited {
		return ErrNotInitialised
	}
	if channel < 0 || channel >= DefaultChannels {
		return ErrInvalidChannel
	}
	return nil
}

// next returns the earliest armed channel due at or before end.
func (f *Fake) next(end uint64) (int, uint64) {
	ch := -1
	var at uint64
	for i := range f.armed {
		if !f.armed[i] || f.deadline[i] > end {
			continue
		}
		if ch < 0 || f.deadline[i] < at {
			ch, at = i, f.deadline[i]
		}
	}
	if ch >= 0 && at < f.now {
		at = f.now
	}
	return ch, at
}

// moveTo walks the counter forward, sampling often enough that the
// accumulator never misses a wrap.
func (f *Fake) moveTo(t uint64) {
	step := uint64(f.acc.Mask()>>1) + 1
	for f.now < t {
		d := t - f.now
		if d > step {
			d = step
		}
		f.now += d
		f.sample()
	}
}

func (f *Fake) sample() uint32 {
	return f.acc.Update(uint32(f.now) & f.acc.Mask())
}
