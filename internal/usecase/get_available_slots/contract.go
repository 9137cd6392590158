package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// PolicyResolver резолвит действующую политику сотрудника
type PolicyResolver interface {
	Resolve(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error)
}

// OpenHoursCalculator источник открытых интервалов сотрудника
type OpenHoursCalculator interface {
	OpenIntervals(ctx context.Context, req availability.Request) ([]domain.Interval, error)
}

// Directory справочник сотрудников и услуг
type Directory interface {
	TeamMember(ctx context.Context, id int64) (*domain.TeamMember, error)
	Service(ctx context.Context, id int64) (*domain.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
