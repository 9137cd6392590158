package domain

import (
	"sort"
	"time"
)

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval creates an interval from a start and a duration
func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Duration returns the length of the interval
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsEmpty returns true for zero-length or inverted intervals
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// Overlaps returns true if the intervals share at least one instant.
// Touching intervals (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// ContainsInstant returns true if t lies within [Start, End)
func (i Interval) ContainsInstant(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Expand widens the interval by d on both sides; negative d is treated as zero
func (i Interval) Expand(d time.Duration) Interval {
	if d < 0 {
		d = 0
	}
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

// UTC returns the interval with both ends converted to UTC
func (i Interval) UTC() Interval {
	return Interval{Start: i.Start.UTC(), End: i.End.UTC()}
}

// Intersect returns the common part of two intervals and whether it is non-empty
func (i Interval) Intersect(other Interval) (Interval, bool) {
	start := i.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := i.End
	if other.End.Before(end) {
		end = other.End
	}
	out := Interval{Start: start, End: end}
	return out, !out.IsEmpty()
}

// MergeIntervals sorts intervals and merges overlapping or touching ones.
// Empty intervals are dropped. The input slice is not modified.
func MergeIntervals(in []Interval) []Interval {
	items := make([]Interval, 0, len(in))
	for _, iv := range in {
		if !iv.IsEmpty() {
			items = append(items, iv)
		}
	}
	if len(items) == 0 {
		return []Interval{}
	}

	sort.Slice(items, func(a, b int) bool {
		return items[a].Start.Before(items[b].Start)
	})

	merged := []Interval{items[0]}
	for _, iv := range items[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
