// Package slots turns open intervals into bookable candidate slots.
package slots

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ErrInvalidInput возвращается при некорректных параметрах генерации
var ErrInvalidInput = errors.New("slots: invalid input data")

// Params входные данные генератора
type Params struct {
	Open     []domain.Interval       // ordered open intervals in UTC
	Duration time.Duration           // requested slot length
	Policy   domain.SchedulingPolicy // buffer, interval, notice, advance
	Existing []*domain.Reservation   // committed reservations of the team member
	Now      time.Time
}

// Validate проверяет параметры генерации
func (p Params) Validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if p.Duration > domain.MaxDurationMinutes*time.Minute {
		return fmt.Errorf("%w: duration exceeds %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	if p.Policy.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: slot interval must be positive", ErrInvalidInput)
	}
	return nil
}

// Generate returns a lazy, finite and restartable sequence of slots in chronological order.
// A candidate start is taken from the grid of each open interval; its buffered footprint
// must lie inside that interval and must not touch the footprint of any blocking reservation.
func Generate(p Params) iter.Seq[domain.Slot] {
	busy := Busy(p.Existing)
	step := p.Policy.SlotInterval()
	if step <= 0 {
		step = domain.DefaultSlotIntervalMinutes * time.Minute
	}
	buffer := p.Policy.Buffer()
	earliest, latest := p.Policy.BookingWindow(p.Now)

	return func(yield func(domain.Slot) bool) {
		if p.Duration <= 0 {
			return
		}
		for _, open := range p.Open {
			for start := open.Start; ; start = start.Add(step) {
				end := start.Add(p.Duration)
				footprint := domain.Interval{Start: start.Add(-buffer), End: end.Add(buffer)}

				if footprint.End.After(open.End) {
					break
				}
				if !latest.IsZero() && start.After(latest) {
					return
				}
				if footprint.Start.Before(open.Start) || start.Before(earliest) {
					continue
				}
				if Collides(busy, footprint) {
					continue
				}
				if !yield(domain.Slot{StartsAt: start.UTC(), EndsAt: end.UTC()}) {
					return
				}
			}
		}
	}
}

// Within keeps only slots lying entirely inside window; the grid of seq is left untouched
func Within(seq iter.Seq[domain.Slot], window domain.Interval) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		for slot := range seq {
			if window.Contains(slot.Interval()) && !yield(slot) {
				return
			}
		}
	}
}

// Collect drains at most limit slots from seq; limit <= 0 means all
func Collect(seq iter.Seq[domain.Slot], limit int) []domain.Slot {
	out := make([]domain.Slot, 0)
	for slot := range seq {
		out = append(out, slot)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Busy returns the merged buffered footprints of blocking reservations
func Busy(reservations []*domain.Reservation) []domain.Interval {
	footprints := make([]domain.Interval, 0, len(reservations))
	for _, r := range reservations {
		if r.IsBlocking() {
			footprints = append(footprints, r.Footprint())
		}
	}
	return domain.MergeIntervals(footprints)
}

// Collides reports whether footprint overlaps any of the merged busy intervals
func Collides(busy []domain.Interval, footprint domain.Interval) bool {
	i := sort.Search(len(busy), func(i int) bool {
		return busy[i].End.After(footprint.Start)
	})
	return i < len(busy) && busy[i].Overlaps(footprint)
}

// InsideOpen reports whether footprint lies entirely inside one open interval
func InsideOpen(open []domain.Interval, footprint domain.Interval) bool {
	for _, iv := range open {
		if iv.Contains(footprint) {
			return true
		}
	}
	return false
}
