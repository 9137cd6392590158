package cancel_reservation

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

// CancelReservationRequest HTTP request model, тело необязательно
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	*handlers.ReservationResponse
	LateCancellation bool `json:"lateCancellation"`
}

// FromServiceResult конвертирует результат отмены
func FromServiceResult(result *booking.TransitionResult) *CancelReservationResponse {
	return &CancelReservationResponse{
		ReservationResponse: handlers.FromReservation(result.Reservation, nil),
		LateCancellation:    result.LateCancellation,
	}
}
