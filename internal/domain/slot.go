package domain

import "time"

// Slot a candidate bookable (start, end) pair satisfying all policy constraints
type Slot struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// Interval returns the raw interval of the slot
func (s Slot) Interval() Interval {
	return Interval{Start: s.StartsAt, End: s.EndsAt}
}

// DurationMinutes returns the slot length in minutes
func (s Slot) DurationMinutes() int {
	return int(s.EndsAt.Sub(s.StartsAt) / time.Minute)
}
