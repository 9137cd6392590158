package update_reservation_status

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

type BookingService interface {
	Transition(ctx context.Context, req *booking.TransitionRequest) (*booking.TransitionResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
