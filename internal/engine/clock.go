package engine

import "time"

// ResourceClock is the depleting time budget. The resource stays within [0, cap];
// reaching zero exhausts the clock, after which it ignores every change until Reset.
type ResourceClock struct {
	resource  float64
	cap       float64
	drainRate float64
	exhausted bool
}

// NewResourceClock returns an exhausted clock draining drainRate resource per second.
// Reset arms it.
func NewResourceClock(drainRate float64) *ResourceClock {
	return &ResourceClock{drainRate: drainRate, exhausted: true}
}

// Reset arms the clock with initial resource, clamped to cap.
func (c *ResourceClock) Reset(initial, cap float64) {
	c.cap = max(cap, 0)
	c.resource = clamp(initial, 0, c.cap)
	c.exhausted = c.resource <= 0
}

// SetCap changes the ceiling, pulling the resource down if it now exceeds it.
func (c *ResourceClock) SetCap(cap float64) {
	if c.exhausted {
		return
	}
	c.cap = max(cap, 0)
	c.resource = min(c.resource, c.cap)
}

// Tick drains the clock for elapsed time. It returns true only on the call that exhausts it.
func (c *ResourceClock) Tick(elapsed time.Duration) bool {
	if c.exhausted || elapsed <= 0 {
		return false
	}
	return c.drain(c.drainRate * elapsed.Seconds())
}

// Add credits amount, saturating at the cap.
func (c *ResourceClock) Add(amount float64) {
	if c.exhausted || amount <= 0 {
		return
	}
	c.resource = min(c.resource+amount, c.cap)
}

// Subtract debits amount, saturating at zero. It returns true only on the call that exhausts the clock.
func (c *ResourceClock) Subtract(amount float64) bool {
	if c.exhausted || amount <= 0 {
		return false
	}
	return c.drain(amount)
}

func (c *ResourceClock) drain(amount float64) bool {
	c.resource -= amount
	if c.resource > 0 {
		return false
	}
	c.resource = 0
	c.exhausted = true
	return true
}

func (c *ResourceClock) Resource() float64 { return c.resource }
func (c *ResourceClock) Cap() float64      { return c.cap }
func (c *ResourceClock) Exhausted() bool   { return c.exhausted }

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
