package get_client_reservations

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidAccountID = "некорректный ID аккаунта"
	msgInvalidClientID  = "некорректный ID клиента"
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

// Handle GET /api/v1/accounts/{accountId}/clients/{clientId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/clients/{id}/reservations - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/clients/{id}/reservations - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	reservations, err := h.service.ListByClient(r.Context(), accountID, clientID)
	if err != nil {
		h.logger.Error("GET /accounts/{id}/clients/{id}/reservations - Failed to list reservations: account_id=%d, client_id=%d, error=%v",
			accountID, clientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /accounts/{id}/clients/{id}/reservations - Reservations retrieved successfully: client_id=%d, count=%d",
		clientID, len(reservations))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromReservations(reservations))
}
