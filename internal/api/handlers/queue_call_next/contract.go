package queue_call_next

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type QueueService interface {
	CallNext(ctx context.Context, accountID int64, teamMemberID *int64) (*domain.QueueItem, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
