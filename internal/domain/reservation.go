package domain

import (
	"fmt"
	"time"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
	ReservationNoShow    ReservationStatus = "no_show"
)

// reservationTransitions allowed status edges
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationNoShow, ReservationCancelled},
}

// IsValid returns true for known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leaves the status
func (s ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[s]) == 0
}

// IsBlocking returns true if a reservation in this status occupies the team member and resources
func (s ReservationStatus) IsBlocking() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// CanTransitionTo checks the edge against the transition table
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for edges outside the table
func (s ReservationStatus) ValidateTransition(next ReservationStatus) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: reservation %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// ReservationSource who created the reservation
type ReservationSource string

const (
	SourceClient ReservationSource = "client"
	SourceStaff  ReservationSource = "staff"
)

// IsValid returns true for known sources
func (s ReservationSource) IsValid() bool {
	return s == SourceClient || s == SourceStaff
}

// InitialStatus returns the status a new reservation starts with
func (s ReservationSource) InitialStatus(policy SchedulingPolicy) ReservationStatus {
	if s == SourceStaff && policy.AutoConfirmStaff {
		return ReservationConfirmed
	}
	return ReservationPending
}

// Metadata keys written by the engine
const (
	MetaNotifiedPrefix      = "notified_"
	MetaLateCancellation    = "late_cancellation"
	MetaNoShowFeeBillable   = "no_show_fee_billable"
	MetaWaitlistEntryID     = "waitlist_entry_id"
	MetaLateForReservation  = "late_for_reservation"
	MetaReservationStartsAt = "reservation_starts_at"
	MetaSkippedAt           = "skipped_at"
	MetaSkipCount           = "skip_count"
	MetaGraceExpired        = "grace_expired"
)

// Reservation represents a committed booking of a team member's time
type Reservation struct {
	ID              int64
	AccountID       int64
	TeamMemberID    int64
	ClientID        *int64
	ServiceID       *int64
	Status          ReservationStatus
	Source          ReservationSource
	Timezone        string
	StartsAt        time.Time // UTC
	EndsAt          time.Time // UTC
	DurationMinutes int
	BufferMinutes   int // snapshot of policy at booking time
	Notes           *string

	CancelledAt        *time.Time
	CancellationReason *string

	RescheduledFromID *int64 // weak link to the original reservation

	ResourceFilters []ResourceFilter
	Metadata        map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the raw [starts_at, ends_at) interval
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartsAt, End: r.EndsAt}
}

// Footprint returns the buffered interval [starts_at - buffer, ends_at + buffer]
func (r *Reservation) Footprint() Interval {
	return Footprint(r.Interval(), r.BufferMinutes)
}

// IsBlocking returns true if the reservation occupies time and resources
func (r *Reservation) IsBlocking() bool {
	return r.Status.IsBlocking()
}

// HasStarted returns true if starts_at is not after now
func (r *Reservation) HasStarted(now time.Time) bool {
	return !r.StartsAt.After(now)
}

// CanBeCancelled returns true if the reservation can be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(ReservationCancelled)
}

// SetMeta sets a metadata key, allocating the map when needed
func (r *Reservation) SetMeta(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// Clone returns a deep copy safe to hand out of a store
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	out := *r
	out.ClientID = cloneInt64(r.ClientID)
	out.ServiceID = cloneInt64(r.ServiceID)
	out.RescheduledFromID = cloneInt64(r.RescheduledFromID)
	if r.Notes != nil {
		v := *r.Notes
		out.Notes = &v
	}
	if r.CancelledAt != nil {
		v := *r.CancelledAt
		out.CancelledAt = &v
	}
	if r.CancellationReason != nil {
		v := *r.CancellationReason
		out.CancellationReason = &v
	}
	if r.ResourceFilters != nil {
		out.ResourceFilters = make([]ResourceFilter, len(r.ResourceFilters))
		for i, f := range r.ResourceFilters {
			out.ResourceFilters[i] = f.Clone()
		}
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// Footprint expands an interval by bufferMinutes on both sides; negative buffers are treated as zero
func Footprint(iv Interval, bufferMinutes int) Interval {
	return iv.Expand(time.Duration(bufferMinutes) * time.Minute)
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	AccountID    *int64
	TeamMemberID *int64
	ClientID     *int64
	From         *time.Time // starts_at + buffer >= From (footprint overlap)
	To           *time.Time
	Statuses     []ReservationStatus // пусто = все статусы
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
