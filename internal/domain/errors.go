package domain

import "errors"

// Error kinds shared by the scheduling engine. Callers match them with errors.Is;
// packages wrap them with context via fmt.Errorf("%w: ...").
var (
	// ErrSlotConflict the buffered interval overlaps an existing pending/confirmed reservation
	ErrSlotConflict = errors.New("slot conflict")

	// ErrOutOfPolicyWindow the request violates min-notice, max-advance, open hours or cancellation cutoff
	ErrOutOfPolicyWindow = errors.New("out of policy window")

	// ErrInvalidTransition the status edge is not allowed
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrResourceUnavailable no resource combination satisfies the requested filters
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrUnknownEntity a referenced team member, resource, reservation or queue item does not exist
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrQueueGraceExpired informational: the call grace period of a queue item elapsed
	ErrQueueGraceExpired = errors.New("queue grace expired")
)
