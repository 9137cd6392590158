package get_client_reservations

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type BookingService interface {
	ListByClient(ctx context.Context, accountID, clientID int64) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
