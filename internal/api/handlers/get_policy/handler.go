package get_policy

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidAccountID    = "некорректный ID аккаунта"
	msgInvalidTeamMemberID = "некорректный ID сотрудника"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/accounts/{accountId}/policy
// Query params: teamMemberId (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/policy - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	teamMemberID, err := handlers.QueryID(r, "teamMemberId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/policy - Invalid team member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeamMemberID)
		return
	}

	policy, err := h.service.Resolve(r.Context(), accountID, teamMemberID)
	if err != nil {
		h.logger.Error("GET /accounts/{id}/policy - Failed to resolve policy: account_id=%d, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /accounts/{id}/policy - Policy retrieved successfully: account_id=%d", accountID)
	handlers.RespondJSON(w, http.StatusOK, FromPolicy(policy))
}
