// Package watcher provides the timing primitives behind live layout
// updates: a debouncer that coalesces bursts of container-resize or
// file-change events, and an fsnotify-backed watcher for the panel
// defaults file.
package watcher

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used when none is given. Editors
// saving the panel defaults file emit several write events per save;
// 300ms lets a whole save settle before the layout reloads.
const DefaultQuiet = 300 * time.Millisecond

// Debouncer coalesces a burst of events into one callback. A continuous
// terminal resize or an editor save produces dozens of events; the
// layout only needs to react once, at the end.
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer with the given quiet period, or
// DefaultQuiet when zero.
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet == 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet}
}

// Trigger schedules the callback after the quiet period. Another
// Trigger inside the period supersedes the pending callback.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		// Stop() can lose the race with an already-fired timer, so the
		// generation check is what actually drops stale callbacks.
		live := gen == d.gen
		if live {
			d.timer = nil
		}
		d.mu.Unlock()
		if live {
			callback()
		}
	})
}

// Cancel drops any pending callback, including one whose timer has
// already fired but not yet run.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.quiet
}
