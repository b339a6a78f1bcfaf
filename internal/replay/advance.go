package replay

import "time"

// AutoAdvance steps a cursor forward on a fixed interval. It is a policy over
// the cursor's Forward transition, not an extra state: when stepping forward
// would be a no-op at the end of the sequence it reports completion instead,
// and the host closes the view. Any manual transition rearms the timer.
type AutoAdvance struct {
	interval time.Duration
	last     time.Time
}

// NewAutoAdvance returns an armed timer, or nil when interval is zero
// (auto-advance disabled).
func NewAutoAdvance(interval time.Duration, now time.Time) *AutoAdvance {
	if interval <= 0 {
		return nil
	}
	return &AutoAdvance{interval: interval, last: now}
}

// Rearm restarts the interval, typically after a manual transition.
func (a *AutoAdvance) Rearm(now time.Time) {
	if a != nil {
		a.last = now
	}
}

// Tick advances the cursor when the interval has elapsed. It returns whether a
// step was taken and whether the replay is complete (the cursor was already at
// the end when the interval fired).
func (a *AutoAdvance) Tick(now time.Time, c *Cursor) (stepped, done bool) {
	if a == nil || now.Sub(a.last) < a.interval {
		return false, false
	}
	if c.Len() == 0 || c.AtEnd() {
		return false, true
	}
	c.Forward()
	a.last = now
	return true, false
}
