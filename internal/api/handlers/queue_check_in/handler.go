package queue_check_in

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/queue"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные чек-ина"
)

type Handler struct {
	service QueueService
	logger  Logger
}

func NewHandler(service QueueService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/queue/check-in
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /queue/check-in - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CheckIn(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrInvalidInput):
			h.logger.Warn("POST /queue/check-in - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /queue/check-in - Rejected: account_id=%d, reservation_id=%v, error=%v",
				req.AccountID, req.ReservationID, err)

		default:
			h.logger.Error("POST /queue/check-in - Failed to check in: account_id=%d, error=%v", req.AccountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /queue/check-in - Checked in successfully: item_id=%d, queue_number=%d, position=%d",
		result.Item.ID, result.Item.QueueNumber, result.Item.Position)
	handlers.RespondJSON(w, http.StatusCreated, FromServiceResult(result))
}
