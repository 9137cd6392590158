package queue_action

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInvalidItemID       = "некорректный ID элемента очереди"
	msgInvalidTeamMemberID = "некорректный ID сотрудника"
	msgUnknownAction       = "неизвестное действие"
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

// HandleGet GET /api/v1/queue/{itemId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathID(r, "itemId")
	if err != nil {
		h.logger.Warn("GET /queue/{id} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	item, err := h.service.Get(r.Context(), itemID)
	if err == nil {
		var checkIns []domain.CheckIn
		if checkIns, err = h.service.CheckIns(r.Context(), itemID); err == nil {
			h.logger.Info("GET /queue/{id} - Item retrieved successfully: item_id=%d", itemID)
			handlers.RespondJSON(w, http.StatusOK, FromDomain(item, checkIns))
			return
		}
	}

	if handlers.RespondDomainError(w, err) {
		h.logger.Warn("GET /queue/{id} - Item not found: item_id=%d", itemID)
		return
	}
	h.logger.Error("GET /queue/{id} - Failed to get item: item_id=%d, error=%v", itemID, err)
	handlers.RespondInternalError(w)
}

// Handle POST /api/v1/queue/{itemId}/{action}
// action: call | start | finish | skip | cancel | leave
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathID(r, "itemId")
	if err != nil {
		h.logger.Warn("POST /queue/{id}/{action} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	action := mux.Vars(r)["action"]
	op, err := h.operation(r, action)
	if err != nil {
		h.logger.Warn("POST /queue/{id}/{action} - Invalid request: action=%s, error=%v", action, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	item, err := op(r.Context(), itemID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /queue/{id}/{action} - Rejected: item_id=%d, action=%s, error=%v", itemID, action, err)
			return
		}
		h.logger.Error("POST /queue/{id}/{action} - Failed: item_id=%d, action=%s, error=%v", itemID, action, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /queue/{id}/{action} - Success: item_id=%d, action=%s, status=%s", itemID, action, item.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromQueueItem(item))
}

type operation func(ctx context.Context, itemID int64) (*domain.QueueItem, error)

type requestError string

func (e requestError) Error() string { return string(e) }

func (h *Handler) operation(r *http.Request, action string) (operation, error) {
	switch action {
	case "call":
		teamMemberID, err := handlers.QueryID(r, "teamMemberId")
		if err != nil {
			return nil, requestError(msgInvalidTeamMemberID)
		}
		return func(ctx context.Context, itemID int64) (*domain.QueueItem, error) {
			return h.service.Call(ctx, itemID, teamMemberID)
		}, nil
	case "start":
		return h.service.Start, nil
	case "finish":
		return h.service.Finish, nil
	case "skip":
		return h.service.Skip, nil
	case "cancel":
		return h.service.Cancel, nil
	case "leave":
		return h.service.Leave, nil
	}
	return nil, requestError(msgUnknownAction)
}
