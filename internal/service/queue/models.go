package queue

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CheckInRequest запрос на постановку в очередь
type CheckInRequest struct {
	AccountID                int64
	ReservationID            *int64
	ClientID                 *int64
	ServiceID                *int64
	TeamMemberID             *int64
	Source                   domain.QueueSource
	Priority                 int
	EstimatedDurationMinutes int // 0 = длительность услуги или значение по умолчанию
}

// CheckInResult результат чек-ина
type CheckInResult struct {
	Item    *domain.QueueItem
	CheckIn domain.CheckIn
	// LateForReservation - бронирование уже закончилось, клиент поставлен как walk-in
	LateForReservation bool
}

// GraceExpiry итог истечения grace-периода вызванного элемента.
// Err всегда оборачивает domain.ErrQueueGraceExpired и носит информационный характер.
type GraceExpiry struct {
	Item   *domain.QueueItem
	NoShow bool
	Err    error
}
