package client

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown ticks once per second from a fixed starting value down to
// zero for the lifetime of one question. At most one run is active:
// Start supersedes any run still in flight. Reaching zero has no side
// effect beyond the final tick; the server's next question_started is
// the authoritative end of a question.
type Countdown struct {
	clock  clockwork.Clock
	onTick func(remaining int)

	mu        sync.Mutex
	stop      chan struct{}
	remaining int
}

// NewCountdown builds a countdown that reports each tick to onTick.
func NewCountdown(clock clockwork.Clock, onTick func(remaining int)) *Countdown {
	return &Countdown{clock: clock, onTick: onTick}
}

// Start begins a fresh countdown from seconds, cancelling any previous
// run first so runs never overlap.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.remaining = seconds
	c.mu.Unlock()

	go c.run(stop, seconds)
}

func (c *Countdown) run(stop chan struct{}, seconds int) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	remaining := seconds
	for remaining > 0 {
		select {
		case <-ticker.Chan():
			c.mu.Lock()
			if c.stop != stop {
				// superseded by a newer Start
				c.mu.Unlock()
				return
			}
			remaining--
			c.remaining = remaining
			c.mu.Unlock()
			if c.onTick != nil {
				c.onTick(remaining)
			}
		case <-stop:
			return
		}
	}
}

// Cancel stops the active countdown. Calling it with no run in flight,
// or after the countdown already reached zero, is a no-op.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Remaining reports the seconds left in the current or last run.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
