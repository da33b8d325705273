package clock

import "time"

// Clock supplies timestamps for records and session expiry.
// Tests substitute mocks.MockClock.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC, truncated to microseconds so that
// values survive a round trip through Postgres unchanged
func (c *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
