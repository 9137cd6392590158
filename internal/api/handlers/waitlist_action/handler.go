package waitlist_action

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInvalidEntryID = "некорректный ID записи листа ожидания"
	msgUnknownAction  = "неизвестное действие"
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

// Handle GET /api/v1/waitlist/{entryId}
// Handle POST /api/v1/waitlist/{entryId}/{action}, action: cancel | resolve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID, err := handlers.PathID(r, "entryId")
	if err != nil {
		h.logger.Warn("%s /waitlist/{id} - Invalid entry ID: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	var op func(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	action := mux.Vars(r)["action"]
	switch action {
	case "":
		op = h.service.Get
	case "cancel":
		op = h.service.Cancel
	case "resolve":
		op = h.service.Resolve
	default:
		h.logger.Warn("%s /waitlist/{id}/{action} - Unknown action: %s", r.Method, action)
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	entry, err := op(r.Context(), entryID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("%s /waitlist/{id} - Rejected: entry_id=%d, action=%s, error=%v", r.Method, entryID, action, err)
			return
		}
		h.logger.Error("%s /waitlist/{id} - Failed: entry_id=%d, action=%s, error=%v", r.Method, entryID, action, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("%s /waitlist/{id} - Success: entry_id=%d, action=%s, status=%s", r.Method, entryID, action, entry.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromWaitlistEntry(entry))
}
