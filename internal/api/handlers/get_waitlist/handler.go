package get_waitlist

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInvalidAccountID = "некорректный ID аккаунта"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/accounts/{accountId}/waitlist
// Query params: status (через запятую)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/waitlist - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	var statuses []domain.WaitlistStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.WaitlistStatus(strings.TrimSpace(s)))
		}
	}

	entries, err := h.service.List(r.Context(), accountID, statuses)
	if err != nil {
		h.logger.Error("GET /accounts/{id}/waitlist - Failed to list waitlist: account_id=%d, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := make([]*handlers.WaitlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, handlers.FromWaitlistEntry(e))
	}

	h.logger.Info("GET /accounts/{id}/waitlist - Waitlist retrieved successfully: account_id=%d, count=%d", accountID, len(entries))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
