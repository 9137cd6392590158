package waitlist

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

func validateJoinRequest(req *JoinRequest, now time.Time) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountId must be positive", ErrInvalidInput)
	}
	if !req.RequestedEndAt.After(req.RequestedStartAt) {
		return fmt.Errorf("%w: requestedEndAt must be after requestedStartAt", ErrInvalidInput)
	}
	if !req.RequestedEndAt.After(now) {
		return fmt.Errorf("%w: requested window is in the past", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	window := req.RequestedEndAt.Sub(req.RequestedStartAt)
	if time.Duration(req.DurationMinutes)*time.Minute > window {
		return fmt.Errorf("%w: durationMinutes does not fit the requested window", ErrInvalidInput)
	}
	if req.PartySize < 0 || req.PartySize > domain.MaxPartySize {
		return fmt.Errorf("%w: partySize must be between 1 and %d", ErrInvalidInput, domain.MaxPartySize)
	}
	if err := resources.ValidateFilters(req.ResourceFilters); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
