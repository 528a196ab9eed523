package utils

import "time"

// Clock abstracts time reads so that expiry and lockout logic can be tested
// with a controllable clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

// NaiveUTC converts t to UTC. All persisted timestamps are naive UTC: they
// represent UTC by convention and are stored without an offset marker, so
// comparisons must never mix in local time.
func NaiveUTC(t time.Time) time.Time {
	return t.UTC()
}

// UTCNow reads the clock and normalizes the result for storage.
func UTCNow(c Clock) time.Time {
	return NaiveUTC(c.Now())
}
