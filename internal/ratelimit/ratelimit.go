// Package ratelimit implements a sliding-window submission ledger. Client
// and server each run their own Limiter with independent windows, stores
// and actor keys; neither trusts the other.
package ratelimit

import "time"

// Store persists one timestamp ledger per actor key. Implementations must
// make Update exclusive per key so concurrent prune-check-append sequences
// cannot both observe "under limit".
type Store interface {
	Load(key string) ([]time.Time, error)
	Save(key string, ledger []time.Time) error
	Update(key string, fn func(ledger []time.Time) ([]time.Time, bool)) (bool, error)
}

// Limiter enforces max submissions per trailing window.
type Limiter struct {
	store  Store
	window time.Duration
	max    int
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(store Store, window time.Duration, max int, opts ...Option) *Limiter {
	l := &Limiter{store: store, window: window, max: max, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether the actor is under its limit. It prunes expired
// entries for the check but never mutates the stored ledger.
func (l *Limiter) Allow(key string) (bool, error) {
	ledger, err := l.store.Load(key)
	if err != nil {
		return false, err
	}
	return len(l.prune(ledger)) < l.max, nil
}

// Record appends the current timestamp and persists the pruned ledger.
func (l *Limiter) Record(key string) error {
	_, err := l.store.Update(key, func(ledger []time.Time) ([]time.Time, bool) {
		return append(l.prune(ledger), l.now()), true
	})
	return err
}

// Take performs the locked prune-check-append sequence the server intake
// uses: the attempt is counted the moment it passes the check.
func (l *Limiter) Take(key string) (bool, error) {
	return l.store.Update(key, func(ledger []time.Time) ([]time.Time, bool) {
		pruned := l.prune(ledger)
		if len(pruned) >= l.max {
			return pruned, false
		}
		return append(pruned, l.now()), true
	})
}

func (l *Limiter) prune(ledger []time.Time) []time.Time {
	cutoff := l.now().Add(-l.window)
	kept := ledger[:0:0]
	for _, ts := range ledger {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
