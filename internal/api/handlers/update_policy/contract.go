package update_policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type PolicyService interface {
	Upsert(ctx context.Context, settings *domain.PolicySettings) (*domain.PolicySettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
