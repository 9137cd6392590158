package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

type BookingService interface {
	Cancel(ctx context.Context, reservationID int64, actor domain.ReservationSource, reason *string) (*booking.TransitionResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
