package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// CreateWaitlistEntry adds an entry
func (s *Store) CreateWaitlistEntry(ctx context.Context, w *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := w.Clone()
	stored.ID = s.id()
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.waitlist[stored.ID] = stored
	return stored.Clone(), nil
}

// GetWaitlistEntry returns an entry by id
func (s *Store) GetWaitlistEntry(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.waitlist[id]
	if !ok {
		return nil, fmt.Errorf("%w: waitlist entry id=%d", storage.ErrNotFound, id)
	}
	return w.Clone(), nil
}

// UpdateWaitlistEntry overwrites an entry
func (s *Store) UpdateWaitlistEntry(ctx context.Context, w *domain.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.waitlist[w.ID]; !ok {
		return fmt.Errorf("%w: waitlist entry id=%d", storage.ErrNotFound, w.ID)
	}
	stored := w.Clone()
	stored.UpdatedAt = s.now()
	s.waitlist[w.ID] = stored
	return nil
}

// ListWaitlist returns entries of an account with the given statuses, oldest first
func (s *Store) ListWaitlist(ctx context.Context, accountID int64, statuses []domain.WaitlistStatus) ([]*domain.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.WaitlistEntry, 0)
	for _, w := range s.waitlist {
		if w.AccountID != accountID || !containsStatus(statuses, w.Status) {
			continue
		}
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListAccountsWithPendingWaitlist returns ids of accounts that have pending entries
func (s *Store) ListAccountsWithPendingWaitlist(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{})
	for _, w := range s.waitlist {
		if w.Status == domain.WaitlistPending {
			seen[w.AccountID] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
