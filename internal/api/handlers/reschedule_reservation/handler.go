package reschedule_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartsAt      = "некорректное время начала, ожидается RFC3339"
	msgInvalidInput         = "некорректные данные переноса"
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

// Handle POST /api/v1/reservations/{reservationId}/reschedule
// Исходное бронирование отменяется, новое создается атомарно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reschedule - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(reservationID, middleware.Actor(r.Context()))
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/reschedule - Invalid startsAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartsAt)
		return
	}

	result, err := h.service.Reschedule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /reservations/{id}/reschedule - Rejected: reservation_id=%d, starts_at=%s, error=%v",
				reservationID, req.StartsAt, err)

		default:
			h.logger.Error("POST /reservations/{id}/reschedule - Failed to reschedule: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/reschedule - Reservation rescheduled successfully: original_id=%d, new_id=%d",
		result.Original.ID, result.Reservation.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromServiceResult(result))
}
