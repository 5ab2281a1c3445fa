// Package scheduler coalesces bursts of record mutations into single
// persisted saves.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultDelay is the trailing debounce window applied when none is
// configured.
const DefaultDelay = 600 * time.Millisecond

// FlushFunc persists the current record. Implementations must read state
// at call time, never a snapshot captured when the save was enqueued, so
// persisted views stay monotonically non-decreasing.
type FlushFunc func(context.Context) error

// Option configures optional behaviour for the Debouncer.
type Option func(*Debouncer)

// WithLogger overrides the logger used to report background save failures.
func WithLogger(logger *log.Logger) Option {
	return func(d *Debouncer) {
		d.logger = logger
	}
}

// WithFlushTimeout bounds the context handed to deferred flushes.
func WithFlushTimeout(timeout time.Duration) Option {
	return func(d *Debouncer) {
		d.timeout = timeout
	}
}

// Debouncer owns a single cancellable delayed save. Schedule re-arms the
// timer (debounce, not throttle); Flush cancels it and writes
// synchronously. Re-arm and cancel are atomic relative to each other, and
// the store writes themselves are serialized through flushMu, so a racing
// timer fire can never produce a duplicate or out-of-order write.
type Debouncer struct {
	delay   time.Duration
	timeout time.Duration
	flush   FlushFunc
	logger  *log.Logger

	// flushMu serializes the actual store writes. It is never taken while
	// holding mu, so Schedule stays non-blocking during a slow save.
	flushMu sync.Mutex

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer constructs a Debouncer invoking flush after delay.
func NewDebouncer(delay time.Duration, flush FlushFunc, opts ...Option) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{
		delay:   delay,
		timeout: 10 * time.Second,
		flush:   flush,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule (re)starts the save timer. Calling it again before the timer
// fires replaces the pending save, collapsing a burst of edits into one
// trailing write.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush cancels any pending timer and persists synchronously, returning the
// save error to the caller. Mutations that must be durable before the user
// navigates away go through here.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	// Wait for any fired timer that already passed its generation check;
	// its older snapshot must land before this one.
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	start := time.Now()
	err := d.flush(ctx)
	observeSave(modeImmediate, start, err)
	return err
}

// Pending reports whether a deferred save is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	// Check the generation only after the write slot is held: a Flush that
	// won the race has already bumped it and persisted a newer snapshot.
	d.mu.Lock()
	if gen != d.gen {
		// Superseded by a later Schedule or Flush.
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.flush(ctx)
	observeSave(modeDebounced, start, err)
	if err != nil {
		// In-memory state stays the source of truth; the next mutation's
		// scheduled save is the de facto retry.
		d.logger.Printf("scheduler: debounced save failed: %v", err)
	}
}
