package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const irqQueueLen = 16

// Soft is a Dev backed by the host's monotonic clock.
//
// Expiries are handed to a single interrupt goroutine which runs callbacks one
// at a time. The hand-off never blocks the expiring timer; when the queue is
// full the expiry is dropped and counted.
type Soft struct {
	log *zap.SugaredLogger

	mu      sync.Mutex
	freq    uint32
	cb      Callback
	inited  bool
	running bool
	base    uint64
	started time.Time
	timers  [DefaultChannels]*time.Timer
	gen     [DefaultChannels]uint64
	held    []int

	irq       chan int
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	drops atomic.Uint32
}

// NewSoft returns an uninitialised software timer.
func NewSoft(log *zap.SugaredLogger) *Soft {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Soft{
		log:  log,
		irq:  make(chan int, irqQueueLen),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (s *Soft) Init(freq uint32, cb Callback) error {
	if freq == 0 {
		return ErrInvalidFreq
	}
	s.mu.Lock()
	first := !s.inited
	s.freq = freq
	s.cb = cb
	s.inited = true
	s.running = true
	s.base = 0
	s.started = time.Now()
	s.mu.Unlock()

	if first {
		go s.loop()
	}
	s.log.Debugw("soft timer initialised", "freq", freq)
	return nil
}

func (s *Soft) Set(channel int, timeout uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(channel); err != nil {
		return err
	}
	s.disarm(channel)
	gen := s.gen[channel]
	s.timers[channel] = time.AfterFunc(Duration(timeout, s.freq), func() {
		s.expire(channel, gen)
	})
	return nil
}

func (s *Soft) SetAbsolute(channel int, target uint32) error {
	return s.Set(channel, target-s.Read())
}

func (s *Soft) Clear(channel int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(channel); err != nil {
		return err
	}
	s.disarm(channel)
	return nil
}

func (s *Soft) Read() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint32(s.ticks())
}

func (s *Soft) Start() {
	s.mu.Lock()
	if s.running || !s.inited {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.started = time.Now()
	held := s.held
	s.held = nil
	s.mu.Unlock()

	for _, ch := range held {
		s.enqueue(ch)
	}
}

func (s *Soft) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.base = s.ticks()
	s.running = false
}

// Drops returns the number of expiries lost to a full interrupt queue.
func (s *Soft) Drops() uint32 { return s.drops.Load() }

// Close disarms every channel and terminates the interrupt goroutine.
func (s *Soft) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		for ch := range s.timers {
			s.disarm(ch)
		}
		started := s.inited
		s.mu.Unlock()

		close(s.quit)
		if started {
			<-s.done
		}
	})
	return nil
}

func (s *Soft) loop() {
	defer close(s.done)
	prepareIRQThread(s.log)
	for {
		select {
		case <-s.quit:
			return
		case ch := <-s.irq:
			s.mu.Lock()
			cb := s.cb
			s.mu.Unlock()
			if cb != nil {
				cb(ch)
			}
		}
	}
}

func (s *Soft) expire(channel int, gen uint64) {
	s.mu.Lock()
	if s.gen[channel] != gen {
		s.mu.Unlock()
		return
	}
	s.timers[channel] = nil
	if !s.running {
		s.held = append(s.held, channel)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.enqueue(channel)
}

func (s *Soft) enqueue(channel int) {
	select {
	case s.irq <- channel:
	default:
		s.drops.Add(1)
	}
}

// disarm must be called with mu held.
func (s *Soft) disarm(channel int) {
	s.gen[channel]++
	if t := s.timers[channel]; t != nil {
		t.Stop()
		s.timers[channel] = nil
	}
}

// ticks must be called with mu held.
func (s *Soft) ticks() uint64 {
	if !s.running {
		return s.base
	}
	return s.base + elapsedTicks(time.Since(s.started), s.freq)
}

// elapsedTicks avoids the overflow of d*freq for long uptimes.
func elapsedTicks(d time.Duration, freq uint32) uint64 {
	sec := uint64(d / time.Second)
	rem := uint64(d % time.Second)
	return sec*uint64(freq) + rem*uint64(freq)/uint64(time.Second)
}

func (s *Soft) check(channel int) error {
	if !s.inited {
		return ErrNotInitialised
	}
	if channel < 0 || channel >= DefaultChannels {
		return ErrInvalidChannel
	}
	return nil
}
