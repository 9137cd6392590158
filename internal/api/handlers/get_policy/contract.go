package get_policy

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type PolicyService interface {
	Resolve(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
