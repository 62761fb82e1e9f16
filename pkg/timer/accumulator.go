package timer

// Accumulator widens a narrow wrapping hardware counter to 32 bits.
//
// Each Update adds the distance travelled since the previous sample, taken
// modulo 2^Width, to a running total. The result is exact as long as the
// counter is sampled at least once per wrap period.
type Accumulator struct {
	width uint
	last  uint32
	total uint32
}

// NewAccumulator returns an accumulator for a counter width bits wide.
// Widths outside 1..32 are treated as 32.
func NewAccumulator(width uint) *Accumulator {
	if width == 0 || width > 32 {
		width = 32
	}
	return &Accumulator{width: width}
}

// Mask returns the bit mask of the underlying counter.
func (a *Accumulator) Mask() uint32 {
	if a.width >= 32 {
		return 0xffffffff
	}
	return uint32(1)<<a.width - 1
}

// Update records a raw counter sample and returns the widened value.
func (a *Accumulator) Update(raw uint32) uint32 {
	mask := a.Mask()
	raw &= mask
	a.total += (raw - a.last) & mask
	a.last = raw
	return a.total
}

// Value returns the widened value as of the last sample.
func (a *Accumulator) Value() uint32 { return a.total }
