package get_team_member_reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type BookingService interface {
	ListByTeamMember(ctx context.Context, teamMemberID int64, from, to time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
