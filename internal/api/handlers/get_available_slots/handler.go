package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidAccountID    = "некорректный ID аккаунта"
	msgInvalidTeamMemberID = "некорректный ID сотрудника"
	msgInvalidParams       = "некорректные параметры запроса: ожидаются from/to в формате YYYY-MM-DD"
	msgInvalidInput        = "некорректные параметры поиска слотов"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/accounts/{accountId}/team-members/{teamMemberId}/available-slots
// Query params: from (required), to, duration, serviceId, limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := handlers.PathID(r, "accountId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/team-members/{id}/available-slots - Invalid account ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	teamMemberID, err := handlers.PathID(r, "teamMemberId")
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/team-members/{id}/available-slots - Invalid team member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeamMemberID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(accountID, teamMemberID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /accounts/{id}/team-members/{id}/available-slots - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /accounts/{id}/team-members/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /accounts/{id}/team-members/{id}/available-slots - Rejected: account_id=%d, team_member_id=%d, error=%v",
				accountID, teamMemberID, err)

		default:
			h.logger.Error("GET /accounts/{id}/team-members/{id}/available-slots - Failed to get slots: account_id=%d, team_member_id=%d, error=%v",
				accountID, teamMemberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /accounts/{id}/team-members/{id}/available-slots - Slots retrieved successfully: account_id=%d, team_member_id=%d, slots_count=%d",
		accountID, teamMemberID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
