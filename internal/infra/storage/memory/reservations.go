package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// CreateReservation inserts the reservation together with its allocations in one step
func (s *Store) CreateReservation(ctx context.Context, r *domain.Reservation, allocs []domain.Allocation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := r.Clone()
	stored.ID = s.id()
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.reservations[stored.ID] = stored

	if len(allocs) > 0 {
		rows := make([]domain.Allocation, len(allocs))
		for i, a := range allocs {
			a.ReservationID = stored.ID
			rows[i] = a
		}
		s.allocations[stored.ID] = rows
	}

	return stored.Clone(), nil
}

// GetReservation returns a reservation by id
func (s *Store) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation id=%d", storage.ErrNotFound, id)
	}
	return r.Clone(), nil
}

// ListReservations returns reservations matching the filter ordered by starts_at
func (s *Store) ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if !matchReservation(r, filter) {
			continue
		}
		out = append(out, r.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

// UpdateReservation overwrites a stored reservation
func (s *Store) UpdateReservation(ctx context.Context, r *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[r.ID]; !ok {
		return fmt.Errorf("%w: reservation id=%d", storage.ErrNotFound, r.ID)
	}
	stored := r.Clone()
	stored.UpdatedAt = s.now()
	s.reservations[r.ID] = stored
	return nil
}

// ListAllocations returns allocations of one reservation
func (s *Store) ListAllocations(ctx context.Context, reservationID int64) ([]domain.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.allocations[reservationID]
	out := make([]domain.Allocation, len(rows))
	copy(out, rows)
	return out, nil
}

// ReleaseReservation stores a reservation that stopped blocking and drops its allocations
func (s *Store) ReleaseReservation(ctx context.Context, r *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[r.ID]; !ok {
		return fmt.Errorf("%w: reservation id=%d", storage.ErrNotFound, r.ID)
	}
	stored := r.Clone()
	stored.UpdatedAt = s.now()
	s.reservations[r.ID] = stored
	delete(s.allocations, r.ID)
	return nil
}

// RescheduleReservation releases the original and inserts its replacement in one step
func (s *Store) RescheduleReservation(ctx context.Context, original, next *domain.Reservation, allocs []domain.Allocation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[original.ID]; !ok {
		return nil, fmt.Errorf("%w: reservation id=%d", storage.ErrNotFound, original.ID)
	}
	now := s.now()

	released := original.Clone()
	released.UpdatedAt = now
	s.reservations[original.ID] = released
	delete(s.allocations, original.ID)

	stored := next.Clone()
	stored.ID = s.id()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.reservations[stored.ID] = stored
	if len(allocs) > 0 {
		rows := make([]domain.Allocation, len(allocs))
		for i, a := range allocs {
			a.ReservationID = stored.ID
			rows[i] = a
		}
		s.allocations[stored.ID] = rows
	}

	return stored.Clone(), nil
}

// ListResourceUsage returns allocations of blocking reservations whose footprint overlaps window
func (s *Store) ListResourceUsage(ctx context.Context, resourceIDs []int64, window domain.Interval) ([]domain.ResourceUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(resourceIDs))
	for _, id := range resourceIDs {
		wanted[id] = struct{}{}
	}

	out := make([]domain.ResourceUsage, 0)
	for reservationID, rows := range s.allocations {
		r := s.reservations[reservationID]
		if r == nil || !r.IsBlocking() {
			continue
		}
		fp := r.Footprint()
		if !fp.Overlaps(window) {
			continue
		}
		for _, a := range rows {
			if _, ok := wanted[a.ResourceID]; !ok {
				continue
			}
			out = append(out, domain.ResourceUsage{
				ResourceID:    a.ResourceID,
				ReservationID: reservationID,
				Footprint:     fp,
				Quantity:      a.Quantity,
			})
		}
	}
	return out, nil
}

func matchReservation(r *domain.Reservation, f domain.ReservationsFilter) bool {
	if f.AccountID != nil && r.AccountID != *f.AccountID {
		return false
	}
	if f.TeamMemberID != nil && r.TeamMemberID != *f.TeamMemberID {
		return false
	}
	if f.ClientID != nil && (r.ClientID == nil || *r.ClientID != *f.ClientID) {
		return false
	}
	if !containsStatus(f.Statuses, r.Status) {
		return false
	}
	fp := r.Footprint()
	if f.From != nil && !fp.End.After(*f.From) {
		return false
	}
	if f.To != nil && !fp.Start.Before(*f.To) {
		return false
	}
	return true
}
