// Package debounce coalesces bursts of calls and tags requests so stale
// responses can be recognized and dropped.
package debounce

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDelay is the quiet period before a debounced call runs.
const DefaultDelay = 350 * time.Millisecond

// Debouncer runs only the last function triggered within a quiet period.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a debouncer. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, replacing any
// function scheduled earlier that has not yet run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending function, if any. It reports whether one was cancelled.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Token identifies one issued request.
type Token uint64

// Generation issues increasing tokens. Only the most recently issued token
// is current.
type Generation struct {
	n atomic.Uint64
}

// Next issues a new token, making every earlier token stale.
func (g *Generation) Next() Token {
	return Token(g.n.Add(1))
}

// Current reports whether tok is the most recently issued token.
func (g *Generation) Current(tok Token) bool {
	return uint64(tok) == g.n.Load()
}
