package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CreateWeeklyAvailability adds a recurring window
func (s *Store) CreateWeeklyAvailability(ctx context.Context, w domain.WeeklyAvailability) (domain.WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.ID = s.id()
	s.weekly[w.TeamMemberID] = append(s.weekly[w.TeamMemberID], w)
	return w, nil
}

// ListWeeklyAvailability returns recurring windows of a team member
func (s *Store) ListWeeklyAvailability(ctx context.Context, teamMemberID int64) ([]domain.WeeklyAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.weekly[teamMemberID]
	out := make([]domain.WeeklyAvailability, len(rows))
	copy(out, rows)
	return out, nil
}

// CreateAvailabilityException adds a date override
func (s *Store) CreateAvailabilityException(ctx context.Context, e domain.AvailabilityException) (domain.AvailabilityException, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.id()
	e.Date = domain.DateOnly(e.Date)
	stored := e
	s.exceptions[e.ID] = &stored
	return e, nil
}

// ListAvailabilityExceptions returns account-wide and team member exceptions with from <= date <= to
func (s *Store) ListAvailabilityExceptions(ctx context.Context, accountID, teamMemberID int64, from, to time.Time) ([]domain.AvailabilityException, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to = domain.DateOnly(from), domain.DateOnly(to)
	out := make([]domain.AvailabilityException, 0)
	for _, e := range s.exceptions {
		if e.AccountID != accountID {
			continue
		}
		if e.TeamMemberID != nil && *e.TeamMemberID != teamMemberID {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
