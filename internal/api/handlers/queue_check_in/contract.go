package queue_check_in

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/queue"
)

type QueueService interface {
	CheckIn(ctx context.Context, req *queue.CheckInRequest) (*queue.CheckInResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
