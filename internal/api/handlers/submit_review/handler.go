package submit_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reviews"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные данные отзыва"
	msgAlreadyReviewed      = "отзыв на это бронирование уже оставлен"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/review - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req SubmitReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	review, err := h.service.Submit(r.Context(), &reviews.SubmitRequest{
		ReservationID: reservationID,
		Rating:        req.Rating,
		Feedback:      req.Feedback,
	})
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/review - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reviews.ErrAlreadyReviewed):
			h.logger.Warn("POST /reservations/{id}/review - Already reviewed: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyReviewed)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /reservations/{id}/review - Rejected: reservation_id=%d, error=%v", reservationID, err)

		default:
			h.logger.Error("POST /reservations/{id}/review - Failed to submit review: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/review - Review submitted successfully: reservation_id=%d, rating=%d", reservationID, review.Rating)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(review))
}

// HandleGet GET /api/v1/reservations/{reservationId}/review
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/review - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	review, err := h.service.GetByReservation(r.Context(), reservationID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /reservations/{id}/review - Review not found: reservation_id=%d", reservationID)
			return
		}
		h.logger.Error("GET /reservations/{id}/review - Failed to get review: reservation_id=%d, error=%v", reservationID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(review))
}
