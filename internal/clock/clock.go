package clock

import "time"

// Clock abstracts time so recorded update timestamps are testable.
type Clock interface {
	Now() time.Time
}

// RealClock delegates to the standard time package.
type RealClock struct{}

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
