// Package sched provides cancellable scheduled tasks. A superseded
// autosave tick or a dismissed toast cancels its pending timer
// deterministically instead of relying on closures overwriting shared
// state.
package sched

import (
	"sync"
	"time"
)

// Handle refers to one scheduled task.
type Handle struct {
	timer *time.Timer
	mu    sync.Mutex
	done  bool
}

// Cancel stops the task if it has not fired yet. It is safe to call more
// than once.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.done = true
	h.timer.Stop()
}

// Schedule runs fn after d unless the returned handle is cancelled first.
func Schedule(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.done {
			h.mu.Unlock()
			return
		}
		h.done = true
		h.mu.Unlock()
		fn()
	})
	return h
}

// Debouncer coalesces bursts of triggers into a single trailing invocation
// after a quiet period.
type Debouncer struct {
	quiet   time.Duration
	mu      sync.Mutex
	pending *Handle
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Trigger schedules fn after the quiet period, cancelling any previously
// pending invocation.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Cancel()
	}
	d.pending = Schedule(d.quiet, fn)
}

// Cancel drops any pending invocation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Cancel()
		d.pending = nil
	}
}
