package queue_action

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type QueueService interface {
	Get(ctx context.Context, id int64) (*domain.QueueItem, error)
	CheckIns(ctx context.Context, itemID int64) ([]domain.CheckIn, error)
	Call(ctx context.Context, itemID int64, teamMemberID *int64) (*domain.QueueItem, error)
	Start(ctx context.Context, itemID int64) (*domain.QueueItem, error)
	Finish(ctx context.Context, itemID int64) (*domain.QueueItem, error)
	Skip(ctx context.Context, itemID int64) (*domain.QueueItem, error)
	Cancel(ctx context.Context, itemID int64) (*domain.QueueItem, error)
	Leave(ctx context.Context, itemID int64) (*domain.QueueItem, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
