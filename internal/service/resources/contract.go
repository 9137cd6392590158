package resources

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ResourceRepository источник ресурсов и их текущей занятости
type ResourceRepository interface {
	ListResources(ctx context.Context, accountID int64) ([]*domain.Resource, error)
	ListResourceUsage(ctx context.Context, resourceIDs []int64, window domain.Interval) ([]domain.ResourceUsage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
