package engine

import (
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by a virtual clock for tests
// Nothing runs until Advance or Flush is called from the test goroutine
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
	posted []func()
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Time
	period  time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// NewManualScheduler creates a scheduler whose clock starts at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the virtual time
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc implements Scheduler
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

// Every implements Scheduler
func (m *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, fn)
}

// Post implements Scheduler
func (m *ManualScheduler) Post(fn func()) {
	m.mu.Lock()
	m.posted = append(m.posted, fn)
	m.mu.Unlock()
}

func (m *ManualScheduler) add(d, period time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{
		s:      m,
		at:     m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, running due timers in deadline order
// Timers created by callbacks are honored if they fall inside the window
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	m.Flush()
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
		m.Flush()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	m.Flush()
}

// nextDue pops the earliest timer due at or before target and advances the clock to it
func (m *ManualScheduler) nextDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *manualTimer
	idx := -1
	for i, t := range m.timers {
		if t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
			idx = i
		}
	}
	if best == nil {
		return nil
	}

	m.now = best.at
	if best.period > 0 {
		m.seq++
		best.at = best.at.Add(best.period)
		best.seq = m.seq
	} else {
		best.fired = true
		m.timers = append(m.timers[:idx], m.timers[idx+1:]...)
	}
	return best
}

// Flush runs posted tasks, including tasks posted by those tasks
func (m *ManualScheduler) Flush() {
	for {
		m.mu.Lock()
		batch := m.posted
		m.posted = nil
		m.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}

// Pending returns the number of live timers
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (t *manualTimer) Stop() bool {
	m := t.s
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			break
		}
	}
	return true
}
