package waitlist

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// JoinRequest запрос на постановку в лист ожидания
type JoinRequest struct {
	AccountID        int64
	ClientID         *int64
	ServiceID        *int64
	TeamMemberID     *int64
	RequestedStartAt time.Time
	RequestedEndAt   time.Time
	DurationMinutes  int
	PartySize        int
	ResourceFilters  []domain.ResourceFilter
}

// SweepResult итог периодического прохода по аккаунту
type SweepResult struct {
	Matched  int
	Released int
}

// Исходы попытки подбора для метрик
const (
	outcomeMatched  = "matched"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
	outcomeError    = "error"
	outcomeReleased = "released"
)
