package update_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy"
)

const (
	msgInvalidAccountID   = "некорректный ID аккаунта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAccessDenied       = "изменять политику может только сотрудник"
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

// Handle PUT /api/v1/accounts/{accountId}/policy
// Защищенный endpoint - только сотрудник
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("PUT /accounts/{id}/policy - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	if middleware.Actor(r.Context()) != domain.SourceStaff {
		h.logger.Warn("PUT /accounts/{id}/policy - Access denied: account_id=%d", accountID)
		handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	var req UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /accounts/{id}/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	saved, err := h.service.Upsert(r.Context(), req.ToDomain(accountID))
	if err != nil {
		if errors.Is(err, policy.ErrInvalidInput) {
			h.logger.Warn("PUT /accounts/{id}/policy - Validation failed: account_id=%d, error=%v", accountID, err)
			handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: msgInvalidRequestBody,
				Detail:  err.Error(),
			})
			return
		}
		h.logger.Error("PUT /accounts/{id}/policy - Failed to save policy: account_id=%d, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /accounts/{id}/policy - Policy saved successfully: account_id=%d, policy_id=%d", accountID, saved.ID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(saved))
}
