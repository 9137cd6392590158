package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// NextQueueNumber returns the next sequential number of the account for the local day
func (s *Store) NextQueueNumber(ctx context.Context, accountID int64, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := queueDayKey{accountID: accountID, day: day.Format(domain.DateFormat)}
	s.queueNumbers[key]++
	return s.queueNumbers[key], nil
}

// CreateQueueItem adds a queue item
func (s *Store) CreateQueueItem(ctx context.Context, item *domain.QueueItem) (*domain.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := item.Clone()
	stored.ID = s.id()
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.queue[stored.ID] = stored
	return stored.Clone(), nil
}

// GetQueueItem returns a queue item by id
func (s *Store) GetQueueItem(ctx context.Context, id int64) (*domain.QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.queue[id]
	if !ok {
		return nil, fmt.Errorf("%w: queue item id=%d", storage.ErrNotFound, id)
	}
	return item.Clone(), nil
}

// UpdateQueueItems overwrites several items at once
func (s *Store) UpdateQueueItems(ctx context.Context, items []*domain.QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if _, ok := s.queue[item.ID]; !ok {
			return fmt.Errorf("%w: queue item id=%d", storage.ErrNotFound, item.ID)
		}
	}
	now := s.now()
	for _, item := range items {
		stored := item.Clone()
		stored.UpdatedAt = now
		s.queue[item.ID] = stored
	}
	return nil
}

// ListQueueItems returns items matching the filter ordered by checked_in_at
func (s *Store) ListQueueItems(ctx context.Context, filter domain.QueueFilter) ([]*domain.QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.QueueItem, 0)
	for _, item := range s.queue {
		if !matchQueueItem(item, filter) {
			continue
		}
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckedInAt.Equal(out[j].CheckedInAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CheckedInAt.Before(out[j].CheckedInAt)
	})
	return out, nil
}

// ListExpiredCalls returns called items whose grace deadline is not after now
func (s *Store) ListExpiredCalls(ctx context.Context, now time.Time, limit int) ([]*domain.QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.QueueItem, 0)
	for _, item := range s.queue {
		if item.GraceElapsed(now) {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CallExpiresAt.Before(*out[j].CallExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AppendCheckIn stores an immutable check-in record
func (s *Store) AppendCheckIn(ctx context.Context, c domain.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkIns = append(s.checkIns, c)
	return nil
}

// ListCheckIns returns check-in records of a queue item in insertion order
func (s *Store) ListCheckIns(ctx context.Context, queueItemID int64) ([]domain.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CheckIn, 0)
	for _, c := range s.checkIns {
		if c.QueueItemID == queueItemID {
			out = append(out, c)
		}
	}
	return out, nil
}

func matchQueueItem(item *domain.QueueItem, f domain.QueueFilter) bool {
	if item.AccountID != f.AccountID {
		return false
	}
	if f.Unassigned && item.TeamMemberID != nil {
		return false
	}
	if f.TeamMemberID != nil && (item.TeamMemberID == nil || *item.TeamMemberID != *f.TeamMemberID) {
		return false
	}
	if f.Since != nil && item.CheckedInAt.Before(*f.Since) {
		return false
	}
	if f.ReservationID != nil && (item.ReservationID == nil || *item.ReservationID != *f.ReservationID) {
		return false
	}
	return containsStatus(f.Statuses, item.Status)
}
