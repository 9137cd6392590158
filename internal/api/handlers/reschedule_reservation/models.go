package reschedule_reservation

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StartsAt        string  `json:"startsAt"` // RFC3339
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Reason          *string `json:"reason,omitempty"`
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	Original    *handlers.ReservationResponse `json:"original"`
	Reservation *handlers.ReservationResponse `json:"reservation"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RescheduleRequest) ToServiceRequest(reservationID int64, actor domain.ReservationSource) (*booking.RescheduleRequest, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	return &booking.RescheduleRequest{
		ReservationID:   reservationID,
		StartsAt:        startsAt,
		DurationMinutes: r.DurationMinutes,
		Actor:           actor,
		Reason:          r.Reason,
	}, nil
}

// FromServiceResult конвертирует результат переноса
func FromServiceResult(result *booking.RescheduleResult) *RescheduleResponse {
	return &RescheduleResponse{
		Original:    handlers.FromReservation(result.Original, nil),
		Reservation: handlers.FromReservation(result.Reservation, result.Allocations),
	}
}
