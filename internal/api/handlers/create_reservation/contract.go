package create_reservation

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

type BookingService interface {
	Commit(ctx context.Context, req *booking.CommitRequest) (*booking.CommitResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
