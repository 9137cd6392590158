package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// WeeklyAvailability a recurring open window of a team member on one weekday
type WeeklyAvailability struct {
	ID           int64
	TeamMemberID int64
	DayOfWeek    time.Weekday // 0 = Sunday
	StartTime    types.TimeString
	EndTime      types.TimeString
	IsActive     bool
}

// ExceptionType kind of a date-specific availability override
type ExceptionType string

const (
	ExceptionClosed      ExceptionType = "closed"
	ExceptionCustomHours ExceptionType = "custom_hours"
	ExceptionExtraHours  ExceptionType = "extra_hours"
)

// IsValid returns true for known exception types
func (t ExceptionType) IsValid() bool {
	switch t {
	case ExceptionClosed, ExceptionCustomHours, ExceptionExtraHours:
		return true
	}
	return false
}

// AvailabilityException overrides recurring availability on a single date
type AvailabilityException struct {
	ID           int64
	AccountID    int64
	TeamMemberID *int64    // NULL = applies to every team member of the account
	Date         time.Time // calendar date, only Y-M-D is meaningful
	StartTime    *types.TimeString
	EndTime      *types.TimeString
	Type         ExceptionType
	Reason       *string
}

// IsAccountWide returns true if the exception applies to the whole account
func (e *AvailabilityException) IsAccountWide() bool {
	return e.TeamMemberID == nil
}

// HasWindow returns true if both bounds are set
func (e *AvailabilityException) HasWindow() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// IsFullDayClosure returns true for a closed exception without times
func (e *AvailabilityException) IsFullDayClosure() bool {
	return e.Type == ExceptionClosed && !e.HasWindow()
}

// SameDate compares only the calendar part of two dates
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly truncates t to midnight UTC of the same calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
