package monitor

import "time"

func (m *Monitor) SetInterval(d time.Duration) {
	m.interval = d
}

func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}
