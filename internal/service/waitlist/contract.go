package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

// WaitlistRepository хранилище листа ожидания
type WaitlistRepository interface {
	CreateWaitlistEntry(ctx context.Context, w *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetWaitlistEntry(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	UpdateWaitlistEntry(ctx context.Context, w *domain.WaitlistEntry) error
	ListWaitlist(ctx context.Context, accountID int64, statuses []domain.WaitlistStatus) ([]*domain.WaitlistEntry, error)
	ListAccountsWithPendingWaitlist(ctx context.Context) ([]int64, error)
}

// Booker фиксирует бронирование от имени записи листа ожидания
type Booker interface {
	Commit(ctx context.Context, req *booking.CommitRequest) (*booking.CommitResult, error)
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
}

// SlotFinder ищет первый свободный слот сотрудника внутри окна
type SlotFinder interface {
	FirstSlot(ctx context.Context, accountID, teamMemberID int64, window domain.Interval, durationMinutes int) (*domain.Slot, error)
}

// PolicyResolver резолвит действующую политику
type PolicyResolver interface {
	Resolve(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error)
}

// Notifier fire-and-forget уведомления
type Notifier interface {
	Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{})
}

// Metrics метрики подбора
type Metrics interface {
	WaitlistMatchAttempt(outcome string)
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
