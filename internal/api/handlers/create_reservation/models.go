package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	AccountID       int64                     `json:"accountId"`
	TeamMemberID    int64                     `json:"teamMemberId"`
	ClientID        *int64                    `json:"clientId,omitempty"`
	ServiceID       *int64                    `json:"serviceId,omitempty"`
	StartsAt        string                    `json:"startsAt"` // RFC3339
	DurationMinutes int                       `json:"durationMinutes,omitempty"`
	Notes           *string                   `json:"notes,omitempty"`
	ResourceFilters []handlers.ResourceFilter `json:"resourceFilters,omitempty"`
	Metadata        map[string]string         `json:"metadata,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateReservationRequest) ToServiceRequest(actor domain.ReservationSource) (*booking.CommitRequest, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	return &booking.CommitRequest{
		AccountID:       r.AccountID,
		TeamMemberID:    r.TeamMemberID,
		ClientID:        r.ClientID,
		ServiceID:       r.ServiceID,
		Source:          actor,
		StartsAt:        startsAt,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
		ResourceFilters: handlers.ToDomainFilters(r.ResourceFilters),
		Metadata:        r.Metadata,
	}, nil
}
