package waitlist_action

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type WaitlistService interface {
	Get(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	Cancel(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	Resolve(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
