package join_waitlist

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/waitlist"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	AccountID        int64                     `json:"accountId"`
	ClientID         *int64                    `json:"clientId,omitempty"`
	ServiceID        *int64                    `json:"serviceId,omitempty"`
	TeamMemberID     *int64                    `json:"teamMemberId,omitempty"`
	RequestedStartAt string                    `json:"requestedStartAt"` // RFC3339
	RequestedEndAt   string                    `json:"requestedEndAt"`   // RFC3339
	DurationMinutes  int                       `json:"durationMinutes"`
	PartySize        int                       `json:"partySize,omitempty"`
	ResourceFilters  []handlers.ResourceFilter `json:"resourceFilters,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *JoinWaitlistRequest) ToServiceRequest() (*waitlist.JoinRequest, error) {
	startAt, err := time.Parse(time.RFC3339, r.RequestedStartAt)
	if err != nil {
		return nil, fmt.Errorf("requestedStartAt: %w", err)
	}
	endAt, err := time.Parse(time.RFC3339, r.RequestedEndAt)
	if err != nil {
		return nil, fmt.Errorf("requestedEndAt: %w", err)
	}

	return &waitlist.JoinRequest{
		AccountID:        r.AccountID,
		ClientID:         r.ClientID,
		ServiceID:        r.ServiceID,
		TeamMemberID:     r.TeamMemberID,
		RequestedStartAt: startAt,
		RequestedEndAt:   endAt,
		DurationMinutes:  r.DurationMinutes,
		PartySize:        r.PartySize,
		ResourceFilters:  handlers.ToDomainFilters(r.ResourceFilters),
	}, nil
}
