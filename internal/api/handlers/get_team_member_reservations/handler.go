package get_team_member_reservations

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidTeamMemberID = "некорректный ID сотрудника"
	msgInvalidParams       = "некорректные параметры запроса: ожидаются from/to в формате RFC3339"
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

// Handle GET /api/v1/team-members/{teamMemberId}/reservations
// Query params: from, to (required), status (через запятую)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teamMemberID, err := handlers.PathID(r, "teamMemberId")
	if err != nil {
		h.logger.Warn("GET /team-members/{id}/reservations - Invalid team member ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeamMemberID)
		return
	}

	params, err := ParseListParams(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /team-members/{id}/reservations - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	reservations, err := h.service.ListByTeamMember(r.Context(), teamMemberID, params.From, params.To, params.Statuses)
	if err != nil {
		h.logger.Error("GET /team-members/{id}/reservations - Failed to list reservations: team_member_id=%d, error=%v", teamMemberID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /team-members/{id}/reservations - Reservations retrieved successfully: team_member_id=%d, count=%d",
		teamMemberID, len(reservations))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromReservations(reservations))
}
