package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiet period before a debounced call runs
const DefaultDelay = 200 * time.Millisecond

// Debouncer runs fn once after Trigger has not been called for the delay.
// Each Trigger cancels the pending call and schedules a new one.
type Debouncer struct {
	mu    sync.Mutex
	clock clockwork.Clock
	delay time.Duration
	fn    func()
	timer clockwork.Timer
}

// New creates a debouncer. A nil clock uses the real clock.
func New(clock clockwork.Clock, delay time.Duration, fn func()) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Trigger (re)schedules the call
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending call. It reports whether one was cancelled.
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
