package queue_check_in

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/queue"
)

// CheckInRequest HTTP request model
type CheckInRequest struct {
	AccountID                int64  `json:"accountId"`
	ReservationID            *int64 `json:"reservationId,omitempty"`
	ClientID                 *int64 `json:"clientId,omitempty"`
	ServiceID                *int64 `json:"serviceId,omitempty"`
	TeamMemberID             *int64 `json:"teamMemberId,omitempty"`
	Source                   string `json:"source"` // kiosk | staff | online
	Priority                 int    `json:"priority,omitempty"`
	EstimatedDurationMinutes int    `json:"estimatedDurationMinutes,omitempty"`
}

// CheckInResponse HTTP response model
type CheckInResponse struct {
	Item               *handlers.QueueItemResponse `json:"item"`
	CheckInID          string                      `json:"checkInId"`
	LateForReservation bool                        `json:"lateForReservation"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CheckInRequest) ToServiceRequest() *queue.CheckInRequest {
	return &queue.CheckInRequest{
		AccountID:                r.AccountID,
		ReservationID:            r.ReservationID,
		ClientID:                 r.ClientID,
		ServiceID:                r.ServiceID,
		TeamMemberID:             r.TeamMemberID,
		Source:                   domain.QueueSource(r.Source),
		Priority:                 r.Priority,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
	}
}

// FromServiceResult конвертирует результат чек-ина
func FromServiceResult(result *queue.CheckInResult) *CheckInResponse {
	return &CheckInResponse{
		Item:               handlers.FromQueueItem(result.Item),
		CheckInID:          result.CheckIn.ID,
		LateForReservation: result.LateForReservation,
	}
}
