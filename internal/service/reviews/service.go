package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// SubmitRequest отзыв клиента о завершенном бронировании
type SubmitRequest struct {
	ReservationID int64
	Rating        int
	Feedback      *string
}

type Service struct {
	repo         ReviewRepository
	reservations Reservations
	notifier     Notifier
	logger       Logger
}

func NewService(repo ReviewRepository, reservations Reservations, notifier Notifier, logger Logger) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		notifier:     notifier,
		logger:       logger,
	}
}

// Submit сохраняет отзыв; допускается один отзыв на завершенное бронирование
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*domain.Review, error) {
	if err := validateSubmitRequest(req); err != nil {
		s.logger.Warn("Submit: validation failed: %v", err)
		return nil, err
	}

	r, err := s.reservations.Get(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReservationCompleted {
		return nil, fmt.Errorf("%w: reservation id=%d is %s, only completed reservations can be reviewed",
			domain.ErrInvalidTransition, r.ID, r.Status)
	}

	review, err := s.repo.CreateReview(ctx, &domain.Review{
		ReservationID: r.ID,
		AccountID:     r.AccountID,
		Rating:        req.Rating,
		Feedback:      req.Feedback,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: reservation id=%d", ErrAlreadyReviewed, r.ID)
		}
		s.logger.Error("Submit: failed to create review for reservation id=%d: %v", r.ID, err)
		return nil, fmt.Errorf("%w: create review: %v", ErrInternal, err)
	}

	s.logger.Info("Submit: review id=%d for reservation id=%d, rating=%d", review.ID, r.ID, review.Rating)
	s.notifier.Notify(ctx, domain.EventReviewSubmitted, domain.Recipient{
		AccountID:    r.AccountID,
		ClientID:     r.ClientID,
		TeamMemberID: &r.TeamMemberID,
	}, map[string]interface{}{
		"review_id":      review.ID,
		"reservation_id": r.ID,
		"rating":         review.Rating,
	})
	return review, nil
}

// GetByReservation возвращает отзыв бронирования
func (s *Service) GetByReservation(ctx context.Context, reservationID int64) (*domain.Review, error) {
	review, err := s.repo.GetReviewByReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: review for reservation id=%d", domain.ErrUnknownEntity, reservationID)
		}
		s.logger.Error("GetByReservation: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: get review: %v", ErrInternal, err)
	}
	return review, nil
}

func validateSubmitRequest(req *SubmitRequest) error {
	if req == nil || req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationId is required", ErrInvalidInput)
	}
	if req.Rating < domain.MinReviewRating || req.Rating > domain.MaxReviewRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinReviewRating, domain.MaxReviewRating)
	}
	if req.Feedback != nil && len(*req.Feedback) > domain.MaxReviewFeedbackLength {
		return fmt.Errorf("%w: feedback exceeds %d characters", ErrInvalidInput, domain.MaxReviewFeedbackLength)
	}
	return nil
}
