package queue

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// recompute пересчитывает позиции и ETA внутри одной эффективной очереди.
// Ожидающие элементы получают позиции 1..n без пропусков; элементы на позиции
// не дальше порога предвызова переводятся в pre_called.
// Возвращает элементы, у которых что-то изменилось, и элементы, впервые получившие pre_called.
func recompute(items []*domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) (changed, preCalled []*domain.QueueItem) {
	waiting := make([]*domain.QueueItem, 0, len(items))
	aheadMinutes := 0
	for _, item := range items {
		switch {
		case item.Status.IsWaiting():
			waiting = append(waiting, item)
		case item.Status == domain.QueueCalled || item.Status == domain.QueueStarted:
			aheadMinutes += item.EstimatedDurationMinutes
			if item.Position != 0 || item.EtaMinutes != 0 {
				item.Position, item.EtaMinutes = 0, 0
				changed = append(changed, item)
			}
		}
	}

	order(waiting, policy, now)

	for i, item := range waiting {
		dirty := false
		if item.Position != i+1 || item.EtaMinutes != aheadMinutes {
			item.Position, item.EtaMinutes = i+1, aheadMinutes
			dirty = true
		}
		if item.Position <= policy.QueuePreCallThreshold && item.Status.CanTransitionTo(domain.QueuePreCalled) {
			item.Status = domain.QueuePreCalled
			item.Stamp(domain.QueuePreCalled, now)
			preCalled = append(preCalled, item)
			dirty = true
		}
		if dirty {
			changed = append(changed, item)
		}
		aheadMinutes += item.EstimatedDurationMinutes
	}
	return changed, preCalled
}

// order сортирует ожидающие элементы согласно режиму диспетчеризации
func order(waiting []*domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) {
	fifo := func(a, b *domain.QueueItem) bool {
		if !a.CheckedInAt.Equal(b.CheckedInAt) {
			return a.CheckedInAt.Before(b.CheckedInAt)
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	}

	if policy.QueueDispatchMode != domain.DispatchFIFOWithAppointmentPriority {
		sort.SliceStable(waiting, func(i, j int) bool { return fifo(waiting[i], waiting[j]) })
		return
	}

	soonUntil := now.Add(policy.CheckInEarly())
	sort.SliceStable(waiting, func(i, j int) bool {
		si, sj := startsSoon(waiting[i], soonUntil), startsSoon(waiting[j], soonUntil)
		if si != sj {
			return si
		}
		return fifo(waiting[i], waiting[j])
	})
}

// startsSoon элемент привязан к бронированию, которое начинается не позже until
func startsSoon(item *domain.QueueItem, until time.Time) bool {
	if item.ReservationID == nil {
		return false
	}
	raw, ok := item.Metadata[domain.MetaReservationStartsAt]
	if !ok {
		return false
	}
	startsAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return !startsAt.After(until)
}
