package get_waitlist

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type WaitlistService interface {
	List(ctx context.Context, accountID int64, statuses []domain.WaitlistStatus) ([]*domain.WaitlistEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
