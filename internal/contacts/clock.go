package contacts

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Snapshot finalization uses it to fix "today" for the whole batch.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
