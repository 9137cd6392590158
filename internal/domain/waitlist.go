package domain

import (
	"fmt"
	"time"
)

// WaitlistStatus represents the status of a waitlist entry
type WaitlistStatus string

const (
	WaitlistPending   WaitlistStatus = "pending"
	WaitlistMatched   WaitlistStatus = "matched"
	WaitlistReleased  WaitlistStatus = "released"
	WaitlistResolved  WaitlistStatus = "resolved"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

var waitlistTransitions = map[WaitlistStatus][]WaitlistStatus{
	WaitlistPending: {WaitlistMatched, WaitlistReleased, WaitlistCancelled},
	WaitlistMatched: {WaitlistResolved, WaitlistCancelled},
}

// IsTerminal returns true if no transition leaves the status
func (s WaitlistStatus) IsTerminal() bool {
	return len(waitlistTransitions[s]) == 0
}

// CanTransitionTo checks the edge against the transition table
func (s WaitlistStatus) CanTransitionTo(next WaitlistStatus) bool {
	for _, allowed := range waitlistTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for edges outside the table
func (s WaitlistStatus) ValidateTransition(next WaitlistStatus) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: waitlist %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// WaitlistEntry a client waiting for capacity inside a requested window
type WaitlistEntry struct {
	ID                   int64
	AccountID            int64
	ClientID             *int64
	ServiceID            *int64
	TeamMemberID         *int64 // NULL = any team member
	Status               WaitlistStatus
	RequestedStartAt     time.Time
	RequestedEndAt       time.Time
	DurationMinutes      int
	PartySize            int
	ResourceFilters      []ResourceFilter
	MatchedReservationID *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Window returns the requested window
func (w *WaitlistEntry) Window() Interval {
	return Interval{Start: w.RequestedStartAt, End: w.RequestedEndAt}
}

// Duration returns the requested duration
func (w *WaitlistEntry) Duration() time.Duration {
	return time.Duration(w.DurationMinutes) * time.Minute
}

// AcceptsTeamMember returns true if the entry has no preference or prefers id
func (w *WaitlistEntry) AcceptsTeamMember(id int64) bool {
	return w.TeamMemberID == nil || *w.TeamMemberID == id
}

// AcceptsService returns true if the entry has no service or asks for the same one
func (w *WaitlistEntry) AcceptsService(serviceID *int64) bool {
	if w.ServiceID == nil {
		return true
	}
	return serviceID != nil && *serviceID == *w.ServiceID
}

// Clone returns a deep copy
func (w *WaitlistEntry) Clone() *WaitlistEntry {
	if w == nil {
		return nil
	}
	out := *w
	out.ClientID = cloneInt64(w.ClientID)
	out.ServiceID = cloneInt64(w.ServiceID)
	out.TeamMemberID = cloneInt64(w.TeamMemberID)
	out.MatchedReservationID = cloneInt64(w.MatchedReservationID)
	if w.ResourceFilters != nil {
		out.ResourceFilters = make([]ResourceFilter, len(w.ResourceFilters))
		for i, f := range w.ResourceFilters {
			out.ResourceFilters[i] = f.Clone()
		}
	}
	return &out
}
