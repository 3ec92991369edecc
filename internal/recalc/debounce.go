// Package recalc coalesces bursts of input changes into a single trailing
// recalculation.
package recalc

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period used when none is configured
const DefaultWindow = 150 * time.Millisecond

// Debouncer runs fn once after Trigger has not been called for a full window.
// Triggers that arrive while a run is pending restart the window; the
// superseded run never fires.
//
// All exported methods are safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool
}

// New creates a debouncer for fn. A non-positive window uses DefaultWindow.
func New(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger schedules fn, replacing any run that is still waiting
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// Flush runs a pending call immediately and reports whether one was pending
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.mu.Unlock()

	d.fn()
	return true
}

// Pending reports whether a run is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending run. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.stopped = true
}

// FlushAndStop stops the debouncer and then runs the call that was pending,
// if any. Triggers racing with it are either run here or ignored.
func (d *Debouncer) FlushAndStop() bool {
	d.mu.Lock()
	run := d.pending && !d.stopped
	d.cancelLocked()
	d.stopped = true
	d.mu.Unlock()

	if run {
		d.fn()
	}
	return run
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A newer trigger, a flush or a stop got here first
	if gen != d.gen || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
}
