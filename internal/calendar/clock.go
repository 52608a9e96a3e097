package calendar

import "time"

// Clock supplies the current calendar day.
type Clock interface {
	Today() Date
}

// SystemClock reads today's date from the local wall clock.
type SystemClock struct{}

// Today returns the local calendar day.
func (SystemClock) Today() Date {
	return FromTime(time.Now())
}

// FixedClock always reports the same day.
// Used by tests and by the CLI --today flag.
type FixedClock struct {
	Date Date
}

// Fixed returns a Clock pinned to d.
func Fixed(d Date) FixedClock {
	return FixedClock{Date: d}
}

// Today returns the pinned date.
func (c FixedClock) Today() Date {
	return c.Date
}
