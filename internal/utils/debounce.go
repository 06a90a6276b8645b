package utils

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of triggers into a single call that runs once no new
// trigger arrived for the settle duration.
type Debouncer struct {
	mu     sync.Mutex
	clock  Clock
	settle time.Duration
	timer  Timer
	gen    int
}

func NewDebouncer(clock Clock, settle time.Duration) *Debouncer {
	return &Debouncer{clock: clock, settle: settle}
}

// Trigger (re)arms the debouncer. Only the fn of the last trigger in a burst runs.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.settle, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops a pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
