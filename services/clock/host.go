package clock

import "time"

// OffsetClock is a Host that keeps a software offset over a base clock.
// It stands in for the MCU's settable RTC on host builds and in tests.
type OffsetClock struct {
	base   func() time.Time
	offset time.Duration
}

// NewOffsetClock wraps base (time.Now when nil).
func NewOffsetClock(base func() time.Time) *OffsetClock {
	if base == nil {
		base = time.Now
	}
	return &OffsetClock{base: base}
}

func (c *OffsetClock) Now() time.Time { return c.base().Add(c.offset).UTC() }

func (c *OffsetClock) Set(t time.Time) error {
	c.offset = t.Sub(c.base())
	return nil
}
