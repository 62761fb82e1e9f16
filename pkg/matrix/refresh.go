package matrix

// refresh is the timer callback. It runs in interrupt context: no blocking, no
// allocation, no locks, no logging. Pin and timer failures are only counted.
func (m *Matrix) refresh(channel int) {
	if channel != m.channel || m.closed.Load() {
		return
	}
	if err := m.timer.Set(m.channel, m.interval); err != nil {
		m.faults.Add(1)
	}

	cur := m.cursor.Load()
	m.drive(m.rows[cur], false)

	next := cur + 1
	if next >= uint32(len(m.rows)) {
		next = 0
	}
	m.cursor.Store(next)

	base := int(next) * len(m.cols)
	for c, p := range m.cols {
		m.drive(p, !m.fb[base+c].Load())
	}

	m.drive(m.rows[next], true)
	// Close may have released the lines while this row was being driven.
	if m.closed.Load() {
		m.idle()
		return
	}
	m.refreshes.Add(1)
}

// idle drives every row low and every column high.
func (m *Matrix) idle() {
	for _, p := range m.rows {
		m.drive(p, false)
	}
	for _, p := range m.cols {
		m.drive(p, true)
	}
}

func (m *Matrix) drive(p Pin, level bool) {
	if err := p.Set(level); err != nil {
		m.faults.Add(1)
	}
}
