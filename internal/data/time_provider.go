package data

import "time"

// TimeProvider abstracts the clock so repositories can be tested with a fixed time.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider returns the actual current time.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always returns the same time. Test use only.
type FixedTimeProvider struct {
	T time.Time
}

func (p FixedTimeProvider) Now() time.Time { return p.T }
