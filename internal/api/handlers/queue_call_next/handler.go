package queue_call_next

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidAccountID    = "некорректный ID аккаунта"
	msgInvalidTeamMemberID = "некорректный ID сотрудника"
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

// Handle POST /api/v1/accounts/{accountId}/queue/call-next
// Query params: teamMemberId (опционально). Пустая очередь - 404
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("POST /accounts/{id}/queue/call-next - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	teamMemberID, err := handlers.QueryID(r, "teamMemberId")
	if err != nil {
		h.logger.Warn("POST /accounts/{id}/queue/call-next - Invalid team member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeamMemberID)
		return
	}

	item, err := h.service.CallNext(r.Context(), accountID, teamMemberID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /accounts/{id}/queue/call-next - Rejected: account_id=%d, error=%v", accountID, err)
			return
		}
		h.logger.Error("POST /accounts/{id}/queue/call-next - Failed to call next: account_id=%d, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /accounts/{id}/queue/call-next - Item called: item_id=%d, queue_number=%d", item.ID, item.QueueNumber)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromQueueItem(item))
}
