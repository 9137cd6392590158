package get_queue

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidAccountID = "некорректный ID аккаунта"
	msgInvalidParams    = "некорректные параметры запроса"
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

// Handle GET /api/v1/accounts/{accountId}/queue
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/queue - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	filter, err := ToFilter(accountID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/queue - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /accounts/{id}/queue - Failed to list queue: account_id=%d, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := make([]*handlers.QueueItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, handlers.FromQueueItem(item))
	}

	h.logger.Info("GET /accounts/{id}/queue - Queue retrieved successfully: account_id=%d, count=%d", accountID, len(items))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
