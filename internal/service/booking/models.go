package booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CommitRequest запрос на создание бронирования
type CommitRequest struct {
	AccountID       int64
	TeamMemberID    int64
	ClientID        *int64
	ServiceID       *int64
	Source          domain.ReservationSource
	StartsAt        time.Time
	DurationMinutes int // 0 = длительность услуги по умолчанию
	Notes           *string
	ResourceFilters []domain.ResourceFilter
	Metadata        map[string]string
}

// CommitResult результат создания бронирования.
// BillingErr не откатывает бронирование: списание депозита - забота биллинга.
type CommitResult struct {
	Reservation *domain.Reservation
	Allocations []domain.Allocation
	BillingErr  error
}

// TransitionRequest запрос на смену статуса бронирования
type TransitionRequest struct {
	ReservationID int64
	Status        domain.ReservationStatus
	Actor         domain.ReservationSource
	Reason        *string
}

// TransitionResult результат смены статуса
type TransitionResult struct {
	Reservation       *domain.Reservation
	LateCancellation  bool
	NoShowFeeBillable bool
	BillingErr        error
}

// RescheduleRequest запрос на перенос бронирования
type RescheduleRequest struct {
	ReservationID   int64
	StartsAt        time.Time
	DurationMinutes int // 0 = оставить прежнюю длительность
	Actor           domain.ReservationSource
	Reason          *string
}

// RescheduleResult результат переноса
type RescheduleResult struct {
	Original    *domain.Reservation
	Reservation *domain.Reservation
	Allocations []domain.Allocation
	BillingErr  error
}
