package debounce

import (
	"sync"
	"sync/atomic"
	"time"
)

// Debouncer runs only the most recently scheduled function, once the delay
// has passed without another call to Do
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a debouncer with the given quiet period
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do schedules fn, cancelling any function still waiting
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending function, if any
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Sequence hands out increasing request numbers so that a late response
// can tell it has been superseded
type Sequence struct {
	n atomic.Uint64
}

// Next returns a number greater than every number returned before
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// IsLatest reports whether n is the most recent number handed out
func (s *Sequence) IsLatest(n uint64) bool {
	return s.n.Load() == n
}
