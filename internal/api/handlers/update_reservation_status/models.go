package update_reservation_status

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"` // confirmed | cancelled | completed | no_show
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	*handlers.ReservationResponse
	LateCancellation  bool `json:"lateCancellation"`
	NoShowFeeBillable bool `json:"noShowFeeBillable"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(reservationID int64, actor domain.ReservationSource) *booking.TransitionRequest {
	return &booking.TransitionRequest{
		ReservationID: reservationID,
		Status:        domain.ReservationStatus(r.Status),
		Actor:         actor,
		Reason:        r.Reason,
	}
}

// FromServiceResult конвертирует результат смены статуса
func FromServiceResult(result *booking.TransitionResult) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		ReservationResponse: handlers.FromReservation(result.Reservation, nil),
		LateCancellation:    result.LateCancellation,
		NoShowFeeBillable:   result.NoShowFeeBillable,
	}
}
