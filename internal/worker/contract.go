package worker

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/queue"
	"github.com/m04kA/SMC-SchedulingService/internal/service/waitlist"
)

// WaitlistSweeper повторный подбор листа ожидания по аккаунтам
type WaitlistSweeper interface {
	Accounts(ctx context.Context) ([]int64, error)
	Sweep(ctx context.Context, accountID int64) (*waitlist.SweepResult, error)
}

// QueueExpirer обработка истекших вызовов очереди
type QueueExpirer interface {
	ExpireDue(ctx context.Context, limit int) ([]queue.GraceExpiry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
