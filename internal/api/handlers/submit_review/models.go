package submit_review

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// SubmitReviewRequest HTTP request model
type SubmitReviewRequest struct {
	Rating   int     `json:"rating"` // 1..5
	Feedback *string `json:"feedback,omitempty"`
}

// ReviewResponse HTTP response model
type ReviewResponse struct {
	ID            int64   `json:"id"`
	ReservationID int64   `json:"reservationId"`
	AccountID     int64   `json:"accountId"`
	Rating        int     `json:"rating"`
	Feedback      *string `json:"feedback,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// FromDomain конвертирует отзыв
func FromDomain(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:            r.ID,
		ReservationID: r.ReservationID,
		AccountID:     r.AccountID,
		Rating:        r.Rating,
		Feedback:      r.Feedback,
		CreatedAt:     handlers.FormatTime(r.CreatedAt),
	}
}
