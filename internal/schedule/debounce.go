// Package schedule provides the owned-timer primitives behind search
// debouncing and message polling. Every timer has an explicit owner and
// is stopped on teardown; no ambient background tasks.
package schedule

import (
	"sync"
	"time"
)

// DefaultDebounce is the search-input debounce window.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a function until input has settled: each Call
// cancels the pending timer and reschedules it (debounce, not
// throttle).
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer. A non-positive delay defaults to
// DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Call schedules fn after the debounce window, replacing any pending
// invocation.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation. Safe to call repeatedly.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
