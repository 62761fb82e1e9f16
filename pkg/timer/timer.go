// Package timer provides the periodic hardware timer abstraction used by the
// LED matrix refresh engine.
//
// A Dev exposes a free-running counter ticking at a configured frequency and a
// small number of one-shot compare channels. When a channel expires the
// callback registered at Init is invoked with the channel number. Callbacks
// run in "interrupt context": they are serialised, must not block and are
// expected to re-arm the channel themselves when periodic behaviour is wanted.
package timer

import (
	"errors"
	"time"
)

const (
	// DefaultChannels is the number of compare channels a backend offers.
	DefaultChannels = 4
	// MHz is the tick frequency used for microsecond granularity.
	MHz = 1000000
)

var (
	ErrNotInitialised = errors.New("timer not initialised")
	ErrInvalidChannel = errors.New("invalid timer channel")
	ErrInvalidFreq    = errors.New("invalid timer frequency")
)

// Callback is invoked when a compare channel expires.
type Callback func(channel int)

// Dev is a hardware timer with one-shot compare channels.
type Dev interface {
	// Init sets the tick frequency and the expiry callback, and starts the counter.
	Init(freq uint32, cb Callback) error
	// Set arms channel to expire timeout ticks from now.
	Set(channel int, timeout uint32) error
	// SetAbsolute arms channel to expire when the counter reaches target.
	SetAbsolute(channel int, target uint32) error
	// Clear disarms channel.
	Clear(channel int) error
	// Read returns the current counter value.
	Read() uint32
	// Start resumes the counter.
	Start()
	// Stop halts the counter. Expiries are held until Start.
	Stop()
}

// Ticks converts d into a tick count at freq, saturating at the counter width.
func Ticks(d time.Duration, freq uint32) uint32 {
	if d <= 0 {
		return 0
	}
	t := uint64(d) * uint64(freq) / uint64(time.Second)
	if t > 0xffffffff {
		return 0xffffffff
	}
	return uint32(t)
}

// Duration converts a tick count at freq back into wall time.
func Duration(ticks uint32, freq uint32) time.Duration {
	if freq == 0 {
		return 0
	}
	return time.Duration(uint64(ticks) * uint64(time.Second) / uint64(freq))
}
