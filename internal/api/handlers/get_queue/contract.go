package get_queue

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type QueueService interface {
	List(ctx context.Context, filter domain.QueueFilter) ([]*domain.QueueItem, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
