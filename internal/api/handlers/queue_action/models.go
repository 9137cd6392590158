package queue_action

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// QueueItemDetailsResponse элемент очереди вместе с журналом чек-инов
type QueueItemDetailsResponse struct {
	*handlers.QueueItemResponse
	CheckIns []CheckInResponse `json:"checkIns"`
}

// CheckInResponse запись журнала чек-инов
type CheckInResponse struct {
	ID            string  `json:"id"`
	Channel       string  `json:"channel"`
	ReservationID *int64  `json:"reservationId,omitempty"`
	GraceDeadline *string `json:"graceDeadline,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// FromDomain конвертирует элемент и журнал
func FromDomain(item *domain.QueueItem, checkIns []domain.CheckIn) *QueueItemDetailsResponse {
	resp := &QueueItemDetailsResponse{
		QueueItemResponse: handlers.FromQueueItem(item),
		CheckIns:          make([]CheckInResponse, 0, len(checkIns)),
	}
	for _, c := range checkIns {
		resp.CheckIns = append(resp.CheckIns, CheckInResponse{
			ID:            c.ID,
			Channel:       string(c.Channel),
			ReservationID: c.ReservationID,
			GraceDeadline: handlers.FormatTimePtr(c.GraceDeadline),
			CreatedAt:     handlers.FormatTime(c.CreatedAt),
		})
	}
	return resp
}
