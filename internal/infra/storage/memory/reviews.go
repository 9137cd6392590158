package memory

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// CreateReview stores a review; one per reservation
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[r.ReservationID]; ok {
		return nil, fmt.Errorf("%w: review for reservation id=%d", storage.ErrAlreadyExists, r.ReservationID)
	}
	stored := *r
	stored.ID = s.id()
	stored.CreatedAt = s.now()
	s.reviews[r.ReservationID] = &stored

	out := stored
	return &out, nil
}

// GetReviewByReservation returns the review of a reservation
func (s *Store) GetReviewByReservation(ctx context.Context, reservationID int64) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[reservationID]
	if !ok {
		return nil, fmt.Errorf("%w: review for reservation id=%d", storage.ErrNotFound, reservationID)
	}
	out := *r
	return &out, nil
}
