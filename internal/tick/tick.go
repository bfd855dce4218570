// Package tick runs periodic callbacks cooperatively on the caller's goroutine.
package tick

import (
	"context"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Scheduler registers callbacks at a fixed interval.
type Scheduler interface {
	// Every calls fn roughly every interval until cancel is called.
	Every(interval time.Duration, fn func(now time.Time)) (cancel func())
}

type entry struct {
	interval  time.Duration
	next      time.Time
	fn        func(now time.Time)
	cancelled bool
}

// Loop is a manual Scheduler. Callbacks only run inside Advance, so the
// owner decides which goroutine they run on.
type Loop struct {
	entries []*entry
	now     time.Time
	running *atomic.Bool
	log     *zap.Logger
}

// NewLoop creates a loop whose clock starts at start. log may be nil.
func NewLoop(start time.Time, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		now:     start,
		running: atomic.NewBool(false),
		log:     log,
	}
}

// Every implements Scheduler. The first call happens one interval after the
// loop's current time.
func (l *Loop) Every(interval time.Duration, fn func(now time.Time)) func() {
	if interval <= 0 {
		interval = time.Millisecond
	}
	e := &entry{interval: interval, next: l.now.Add(interval), fn: fn}
	l.entries = append(l.entries, e)
	return func() {
		e.cancelled = true
	}
}

// Len returns the number of live registrations.
func (l *Loop) Len() int {
	n := 0
	for _, e := range l.entries {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock to now and runs every due callback once, in
// registration order. A callback that fell several intervals behind runs
// once and is rescheduled from now. It returns the number of callbacks run.
func (l *Loop) Advance(now time.Time) int {
	if now.Before(l.now) {
		return 0
	}
	l.now = now

	due := make([]*entry, len(l.entries))
	copy(due, l.entries)

	fired := 0
	for _, e := range due {
		if e.cancelled || now.Before(e.next) {
			continue
		}
		e.next = e.next.Add(e.interval)
		if !e.next.After(now) {
			e.next = now.Add(e.interval)
		}
		e.fn(now)
		fired++
	}

	l.compact()
	return fired
}

func (l *Loop) compact() {
	live := l.entries[:0]
	for _, e := range l.entries {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = live
}

// Run drives Advance from a ticker on the calling goroutine until ctx is
// done or Stop is called.
func (l *Loop) Run(ctx context.Context, step time.Duration) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	l.log.Debug("tick loop started", zap.Duration("step", step))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !l.running.Load() {
				l.log.Debug("tick loop stopped")
				return nil
			}
			l.Advance(now)
		}
	}
}

// Stop asks a running Run to return after its current tick. Safe to call
// from any goroutine.
func (l *Loop) Stop() {
	l.running.Store(false)
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}
