package queue

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// QueueRepository хранилище живой очереди
type QueueRepository interface {
	NextQueueNumber(ctx context.Context, accountID int64, day time.Time) (int, error)
	CreateQueueItem(ctx context.Context, item *domain.QueueItem) (*domain.QueueItem, error)
	GetQueueItem(ctx context.Context, id int64) (*domain.QueueItem, error)
	UpdateQueueItems(ctx context.Context, items []*domain.QueueItem) error
	ListQueueItems(ctx context.Context, filter domain.QueueFilter) ([]*domain.QueueItem, error)
	ListExpiredCalls(ctx context.Context, now time.Time, limit int) ([]*domain.QueueItem, error)
	AppendCheckIn(ctx context.Context, c domain.CheckIn) error
	ListCheckIns(ctx context.Context, queueItemID int64) ([]domain.CheckIn, error)
}

// Reservations чтение бронирований для привязки чек-ина
type Reservations interface {
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
}

// Directory справочник сотрудников и услуг
type Directory interface {
	TeamMember(ctx context.Context, id int64) (*domain.TeamMember, error)
	Service(ctx context.Context, id int64) (*domain.Service, error)
}

// PolicyResolver резолвит действующую политику
type PolicyResolver interface {
	Resolve(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error)
}

// TxManager менеджер транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier fire-and-forget уведомления
type Notifier interface {
	Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{})
}

// Metrics метрики очереди
type Metrics interface {
	QueueTransitioned(to string)
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
