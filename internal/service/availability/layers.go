package availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Each layer is a pure transformation over the interval set of one local date:
// recurring -> exception override -> policy clamp.

// Recurring returns the active weekly windows of the date's weekday in loc
func Recurring(date time.Time, loc *time.Location, weekly []domain.WeeklyAvailability) []domain.Interval {
	out := make([]domain.Interval, 0, len(weekly))
	for _, w := range weekly {
		if !w.IsActive || w.DayOfWeek != date.Weekday() {
			continue
		}
		out = append(out, window(date, loc, w.StartTime, w.EndTime))
	}
	return domain.MergeIntervals(out)
}

// ApplyExceptions overrides the day's windows with the exceptions of that date.
// Team-member exceptions replace account-wide ones for the same date entirely.
func ApplyExceptions(date time.Time, loc *time.Location, windows []domain.Interval, exceptions []domain.AvailabilityException) []domain.Interval {
	effective := EffectiveExceptions(date, exceptions)
	if len(effective) == 0 {
		return windows
	}

	var custom, extra, closed []domain.Interval
	hasCustom := false
	for _, e := range effective {
		switch e.Type {
		case domain.ExceptionClosed:
			if !e.HasWindow() {
				return []domain.Interval{}
			}
			closed = append(closed, window(date, loc, *e.StartTime, *e.EndTime))
		case domain.ExceptionCustomHours:
			hasCustom = true
			if e.HasWindow() {
				custom = append(custom, window(date, loc, *e.StartTime, *e.EndTime))
			}
		case domain.ExceptionExtraHours:
			if e.HasWindow() {
				extra = append(extra, window(date, loc, *e.StartTime, *e.EndTime))
			}
		}
	}

	result := windows
	if hasCustom {
		result = custom
	}
	result = domain.MergeIntervals(append(append([]domain.Interval{}, result...), extra...))
	return Subtract(result, closed)
}

// EffectiveExceptions picks exceptions of the date, team-member rows winning over account-wide rows
func EffectiveExceptions(date time.Time, exceptions []domain.AvailabilityException) []domain.AvailabilityException {
	var member, account []domain.AvailabilityException
	for _, e := range exceptions {
		if !domain.SameDate(e.Date, date) {
			continue
		}
		if e.IsAccountWide() {
			account = append(account, e)
		} else {
			member = append(member, e)
		}
	}
	if len(member) > 0 {
		return member
	}
	return account
}

// ClampToPolicy drops intervals that cannot host any slot inside the policy booking window.
// Slot starts are compared to the window, so intervals are only discarded, never trimmed.
func ClampToPolicy(intervals []domain.Interval, policy domain.SchedulingPolicy, now time.Time) []domain.Interval {
	earliest, latest := policy.BookingWindow(now)
	buffer := policy.Buffer()

	out := make([]domain.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.End.After(earliest) {
			continue
		}
		if !latest.IsZero() && iv.Start.Add(buffer).After(latest) {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Subtract removes every cut from the merged base intervals
func Subtract(base, cuts []domain.Interval) []domain.Interval {
	if len(cuts) == 0 {
		return base
	}
	cuts = domain.MergeIntervals(cuts)

	out := make([]domain.Interval, 0, len(base))
	for _, b := range base {
		pieces := []domain.Interval{b}
		for _, c := range cuts {
			next := make([]domain.Interval, 0, len(pieces)+1)
			for _, p := range pieces {
				if !p.Overlaps(c) {
					next = append(next, p)
					continue
				}
				if p.Start.Before(c.Start) {
					next = append(next, domain.Interval{Start: p.Start, End: c.Start})
				}
				if c.End.Before(p.End) {
					next = append(next, domain.Interval{Start: c.End, End: p.End})
				}
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	return out
}

func window(date time.Time, loc *time.Location, start, end types.TimeString) domain.Interval {
	return domain.Interval{Start: start.On(date, loc), End: end.On(date, loc)}
}
