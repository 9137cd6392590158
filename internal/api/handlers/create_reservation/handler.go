package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartsAt    = "некорректное время начала, ожидается RFC3339"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
// Источник бронирования (client/staff) берется из X-User-Role
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(middleware.Actor(r.Context()))
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid startsAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartsAt)
		return
	}

	result, err := h.service.Commit(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /reservations - Rejected: account_id=%d, team_member_id=%d, starts_at=%s, error=%v",
				req.AccountID, req.TeamMemberID, req.StartsAt, err)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: account_id=%d, team_member_id=%d, error=%v",
				req.AccountID, req.TeamMemberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.BillingErr != nil {
		h.logger.Warn("POST /reservations - Deposit charge failed: reservation_id=%d, error=%v", result.Reservation.ID, result.BillingErr)
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, team_member_id=%d, status=%s",
		result.Reservation.ID, result.Reservation.TeamMemberID, result.Reservation.Status)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromReservation(result.Reservation, result.Allocations))
}
