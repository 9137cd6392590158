package reviews

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ReviewRepository хранилище отзывов
type ReviewRepository interface {
	CreateReview(ctx context.Context, r *domain.Review) (*domain.Review, error)
	GetReviewByReservation(ctx context.Context, reservationID int64) (*domain.Review, error)
}

// Reservations чтение бронирований
type Reservations interface {
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
}

// Notifier fire-and-forget уведомления
type Notifier interface {
	Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{})
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
