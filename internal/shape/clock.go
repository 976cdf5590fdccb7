package shape

import "sync/atomic"

// Clock is the store's revision counter. Every applied batch ticks it once,
// so renderers can drop frames older than the one they already drew.
type Clock struct {
	counter atomic.Uint64
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.counter.Add(1)
}

// Current returns the latest value without advancing it.
func (c *Clock) Current() uint64 {
	return c.counter.Load()
}
