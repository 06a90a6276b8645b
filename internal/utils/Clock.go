package utils

import (
	"sort"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	// AfterFunc waits for the duration to elapse and then calls f.
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

func (s SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// MockClock is a manually driven clock. Timers only fire from Advance, synchronously,
// on the goroutine calling Advance.
type MockClock struct {
	mu       sync.Mutex
	FixedNow time.Time
	timers   []*mockTimer
	nextSeq  int
}

type mockTimer struct {
	clock   *MockClock
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FixedNow = now
}

func (m *MockClock) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	t := &mockTimer{clock: m, at: m.FixedNow.Add(d), seq: m.nextSeq, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward and fires every timer that became due, in due order.
// Timers scheduled by a firing callback fire in the same call if they are due as well.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.FixedNow.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDue(target)
		if next == nil {
			m.FixedNow = target
			m.mu.Unlock()
			return
		}
		m.FixedNow = next.at
		m.mu.Unlock()
		next.fn()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *MockClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *MockClock) popDue(target time.Time) *mockTimer {
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at.Equal(m.timers[j].at) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at.Before(m.timers[j].at)
	})
	if len(m.timers) == 0 || m.timers[0].at.After(target) {
		return nil
	}
	t := m.timers[0]
	m.timers = m.timers[1:]
	return t
}

func (t *mockTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, pending := range m.timers {
		if pending == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			t.stopped = true
			return true
		}
	}
	return false
}
