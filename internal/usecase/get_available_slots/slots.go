package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// touchingWindow оставляет открытые интервалы, пересекающие окно, целиком:
// сетка слотов и буфер считаются от исходных границ интервала
func touchingWindow(open []domain.Interval, window domain.Interval) []domain.Interval {
	out := make([]domain.Interval, 0, len(open))
	for _, iv := range open {
		if iv.Overlaps(window) {
			out = append(out, iv)
		}
	}
	return out
}

// toResponseSlots переводит слоты в локальное представление сотрудника
func toResponseSlots(in []domain.Slot, loc *time.Location) []Slot {
	out := make([]Slot, len(in))
	for i, s := range in {
		local := s.StartsAt.In(loc)
		out[i] = Slot{
			StartsAt:        s.StartsAt,
			EndsAt:          s.EndsAt,
			LocalStart:      local.Format(domain.TimeFormat),
			LocalDate:       local.Format(domain.DateFormat),
			DurationMinutes: s.DurationMinutes(),
		}
	}
	return out
}
