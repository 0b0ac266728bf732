package ibctesting

import (
	"sync"
	"time"

	"github.com/ComposableFi/light-clients/modules/core/exported"
)

var _ exported.Clock = (*Clock)(nil)

// Clock is a manually driven exported.Clock. It is safe for concurrent use.
type Clock struct {
	mtx    sync.RWMutex
	now    time.Time
	height uint64
}

// NewClock returns a clock reading now at block height 1.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now.UTC(), height: 1}
}

// Now implements exported.Clock.
func (c *Clock) Now() time.Time {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.now
}

// BlockHeight implements exported.Clock.
func (c *Clock) BlockHeight() uint64 {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.height
}

// SetTime sets the time read by the clock.
func (c *Clock) SetTime(now time.Time) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = now.UTC()
}

// Advance moves the clock forward by d and by one block.
func (c *Clock) Advance(d time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = c.now.Add(d)
	c.height++
}
