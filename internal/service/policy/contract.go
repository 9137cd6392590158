package policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// PolicyRepository хранилище слоев политики расписания
type PolicyRepository interface {
	GetPolicySettings(ctx context.Context, accountID int64, teamMemberID *int64) (*domain.PolicySettings, error)
	UpsertPolicySettings(ctx context.Context, settings *domain.PolicySettings) (*domain.PolicySettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
