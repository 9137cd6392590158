package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AvailabilityRepository источник недельного расписания и исключений
type AvailabilityRepository interface {
	ListWeeklyAvailability(ctx context.Context, teamMemberID int64) ([]domain.WeeklyAvailability, error)
	ListAvailabilityExceptions(ctx context.Context, accountID, teamMemberID int64, from, to time.Time) ([]domain.AvailabilityException, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
