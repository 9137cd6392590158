package reschedule_reservation

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

type BookingService interface {
	Reschedule(ctx context.Context, req *booking.RescheduleRequest) (*booking.RescheduleResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
