package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

// ReservationRepository хранилище бронирований и распределений ресурсов
type ReservationRepository interface {
	CreateReservation(ctx context.Context, r *domain.Reservation, allocs []domain.Allocation) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateReservation(ctx context.Context, r *domain.Reservation) error
	ReleaseReservation(ctx context.Context, r *domain.Reservation) error
	RescheduleReservation(ctx context.Context, original, next *domain.Reservation, allocs []domain.Allocation) (*domain.Reservation, error)
	ListAllocations(ctx context.Context, reservationID int64) ([]domain.Allocation, error)
}

// PolicyResolver резолвит действующую политику
type PolicyResolver interface {
	Resolve(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error)
}

// Directory справочник сотрудников и услуг
type Directory interface {
	TeamMember(ctx context.Context, id int64) (*domain.TeamMember, error)
	Service(ctx context.Context, id int64) (*domain.Service, error)
}

// OpenHoursCalculator источник открытых интервалов сотрудника
type OpenHoursCalculator interface {
	OpenIntervals(ctx context.Context, req availability.Request) ([]domain.Interval, error)
}

// ResourceAllocator подбор ресурсов под фильтры
type ResourceAllocator interface {
	Candidates(ctx context.Context, req resources.Request) ([]*domain.Resource, error)
	Plan(ctx context.Context, req resources.Request) ([]domain.Allocation, error)
}

// TxManager менеджер транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier fire-and-forget уведомления
type Notifier interface {
	Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{})
}

// Billing списание депозитов и штрафов
type Billing interface {
	ChargeDeposit(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error
	ChargeNoShowFee(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error
}

// FreedSlotListener получает освобожденные интервалы (лист ожидания)
type FreedSlotListener interface {
	OnReservationFreed(ctx context.Context, freed domain.FreedSlot)
}

// Metrics доменные метрики бронирований
type Metrics interface {
	ReservationCommitted(source string)
	CommitRejected(reason string)
	ReservationTransitioned(from, to string)
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
