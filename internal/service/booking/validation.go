package booking

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
)

func validateCommitRequest(req *CommitRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.AccountID <= 0 || req.TeamMemberID <= 0 {
		return fmt.Errorf("%w: accountId and teamMemberId must be positive", ErrInvalidInput)
	}
	if !req.Source.IsValid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}
	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	if req.DurationMinutes == 0 && req.ServiceID == nil {
		return fmt.Errorf("%w: durationMinutes or serviceId is required", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if err := resources.ValidateFilters(req.ResourceFilters); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func validateTransitionRequest(req *TransitionRequest) error {
	if req == nil || req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationId is required", ErrInvalidInput)
	}
	if !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if !req.Actor.IsValid() {
		return fmt.Errorf("%w: unknown actor %q", ErrInvalidInput, req.Actor)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}

func validateRescheduleRequest(req *RescheduleRequest) error {
	if req == nil || req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationId is required", ErrInvalidInput)
	}
	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	if !req.Actor.IsValid() {
		return fmt.Errorf("%w: unknown actor %q", ErrInvalidInput, req.Actor)
	}
	return nil
}
