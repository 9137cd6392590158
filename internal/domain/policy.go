package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueueDispatchMode order in which waiting queue items are served
type QueueDispatchMode string

const (
	DispatchFIFO                        QueueDispatchMode = "fifo"
	DispatchFIFOWithAppointmentPriority QueueDispatchMode = "fifo_with_appointment_priority"
)

// IsValid returns true for known dispatch modes
func (m QueueDispatchMode) IsValid() bool {
	return m == DispatchFIFO || m == DispatchFIFOWithAppointmentPriority
}

// QueueAssignmentMode scope of the walk-in queue
type QueueAssignmentMode string

const (
	AssignmentPerStaff   QueueAssignmentMode = "per_staff"
	AssignmentGlobalPull QueueAssignmentMode = "global_pull"
)

// IsValid returns true for known assignment modes
func (m QueueAssignmentMode) IsValid() bool {
	return m == AssignmentPerStaff || m == AssignmentGlobalPull
}

// SchedulingPolicy fully resolved scheduling rules for an account or a team member.
// Produced by merging PolicySettings layers over DefaultPolicy.
type SchedulingPolicy struct {
	AccountID    int64
	TeamMemberID *int64 // nil = account-wide

	BufferMinutes           int
	SlotIntervalMinutes     int
	MinNoticeMinutes        int
	MaxAdvanceDays          int // 0 = unlimited
	CancellationCutoffHours int
	AllowClientCancel       bool
	AllowClientReschedule   bool
	AutoConfirmStaff        bool // staff-sourced reservations start confirmed
	EnforceOpenHours        bool // client commits must lie inside open intervals

	DepositRequired  bool
	DepositAmount    decimal.Decimal
	NoShowFeeEnabled bool
	NoShowFeeAmount  decimal.Decimal

	QueueModeEnabled         bool
	QueueDispatchMode        QueueDispatchMode
	QueueGraceMinutes        int
	QueuePreCallThreshold    int // 0 = pre-call disabled
	QueueAssignmentMode      QueueAssignmentMode
	QueueNoShowOnGraceExpiry bool
	CheckInEarlyMinutes      int
	QueueTimezone            string // IANA, задается только на уровне аккаунта

	WaitlistEnabled bool
}

// DefaultPolicy returns the built-in policy used when no rows are configured
func DefaultPolicy(accountID int64) SchedulingPolicy {
	return SchedulingPolicy{
		AccountID:                accountID,
		BufferMinutes:            DefaultBufferMinutes,
		SlotIntervalMinutes:      DefaultSlotIntervalMinutes,
		MinNoticeMinutes:         DefaultMinNoticeMinutes,
		MaxAdvanceDays:           DefaultMaxAdvanceDays,
		CancellationCutoffHours:  DefaultCancellationCutoffHours,
		AllowClientCancel:        true,
		AllowClientReschedule:    true,
		AutoConfirmStaff:         true,
		EnforceOpenHours:         true,
		DepositAmount:            ZeroAmount,
		NoShowFeeAmount:          ZeroAmount,
		QueueDispatchMode:        DispatchFIFO,
		QueueGraceMinutes:        DefaultQueueGraceMinutes,
		QueuePreCallThreshold:    DefaultQueuePreCallThreshold,
		QueueAssignmentMode:      AssignmentPerStaff,
		QueueNoShowOnGraceExpiry: true,
		CheckInEarlyMinutes:      DefaultCheckInEarlyMinutes,
		QueueTimezone:            DefaultQueueTimezone,
		WaitlistEnabled:          true,
	}
}

// Buffer returns the buffer as a duration, negative values are treated as zero
func (p SchedulingPolicy) Buffer() time.Duration {
	if p.BufferMinutes < 0 {
		return 0
	}
	return time.Duration(p.BufferMinutes) * time.Minute
}

// SlotInterval returns the slot grid step
func (p SchedulingPolicy) SlotInterval() time.Duration {
	return time.Duration(p.SlotIntervalMinutes) * time.Minute
}

// MinNotice returns the minimal booking notice
func (p SchedulingPolicy) MinNotice() time.Duration {
	return time.Duration(p.MinNoticeMinutes) * time.Minute
}

// HasAdvanceLimit returns true if there's a limit on how far in advance bookings can be made
func (p SchedulingPolicy) HasAdvanceLimit() bool {
	return p.MaxAdvanceDays > 0
}

// BookingWindow returns the earliest and latest allowed start for a reservation made at now.
// latest is zero when the policy has no advance limit.
func (p SchedulingPolicy) BookingWindow(now time.Time) (earliest, latest time.Time) {
	earliest = now.Add(p.MinNotice())
	if p.HasAdvanceLimit() {
		latest = now.AddDate(0, 0, p.MaxAdvanceDays)
	}
	return earliest, latest
}

// CancellationCutoff returns the cutoff as a duration
func (p SchedulingPolicy) CancellationCutoff() time.Duration {
	return time.Duration(p.CancellationCutoffHours) * time.Hour
}

// QueueGrace returns the call grace period
func (p SchedulingPolicy) QueueGrace() time.Duration {
	return time.Duration(p.QueueGraceMinutes) * time.Minute
}

// CheckInEarly returns how long before starts_at a linked check-in is accepted
func (p SchedulingPolicy) CheckInEarly() time.Duration {
	return time.Duration(p.CheckInEarlyMinutes) * time.Minute
}

// QueueLocation returns the location in which queue numbers roll over to a new day
func (p SchedulingPolicy) QueueLocation() (*time.Location, error) {
	if p.QueueTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(p.QueueTimezone)
}

// Apply overlays every non-nil field of s over the policy
func (p SchedulingPolicy) Apply(s PolicySettings) SchedulingPolicy {
	setInt(&p.BufferMinutes, s.BufferMinutes)
	setInt(&p.SlotIntervalMinutes, s.SlotIntervalMinutes)
	setInt(&p.MinNoticeMinutes, s.MinNoticeMinutes)
	setInt(&p.MaxAdvanceDays, s.MaxAdvanceDays)
	setInt(&p.CancellationCutoffHours, s.CancellationCutoffHours)
	setBool(&p.AllowClientCancel, s.AllowClientCancel)
	setBool(&p.AllowClientReschedule, s.AllowClientReschedule)
	setBool(&p.AutoConfirmStaff, s.AutoConfirmStaff)
	setBool(&p.EnforceOpenHours, s.EnforceOpenHours)
	setBool(&p.DepositRequired, s.DepositRequired)
	if s.DepositAmount != nil {
		p.DepositAmount = *s.DepositAmount
	}
	setBool(&p.NoShowFeeEnabled, s.NoShowFeeEnabled)
	if s.NoShowFeeAmount != nil {
		p.NoShowFeeAmount = *s.NoShowFeeAmount
	}
	setBool(&p.QueueModeEnabled, s.QueueModeEnabled)
	if s.QueueDispatchMode != nil {
		p.QueueDispatchMode = *s.QueueDispatchMode
	}
	setInt(&p.QueueGraceMinutes, s.QueueGraceMinutes)
	setInt(&p.QueuePreCallThreshold, s.QueuePreCallThreshold)
	if s.QueueAssignmentMode != nil {
		p.QueueAssignmentMode = *s.QueueAssignmentMode
	}
	setBool(&p.QueueNoShowOnGraceExpiry, s.QueueNoShowOnGraceExpiry)
	setInt(&p.CheckInEarlyMinutes, s.CheckInEarlyMinutes)
	if s.QueueTimezone != nil {
		p.QueueTimezone = *s.QueueTimezone
	}
	setBool(&p.WaitlistEnabled, s.WaitlistEnabled)
	return p
}

// PolicySettings one stored policy layer. nil fields inherit from the layer below.
// Supports hierarchical configuration:
// 1. Team member (account_id, team_member_id)
// 2. Account-wide (account_id, NULL)
type PolicySettings struct {
	ID           int64
	AccountID    int64
	TeamMemberID *int64 // NULL = account-wide settings

	BufferMinutes           *int
	SlotIntervalMinutes     *int
	MinNoticeMinutes        *int
	MaxAdvanceDays          *int
	CancellationCutoffHours *int
	AllowClientCancel       *bool
	AllowClientReschedule   *bool
	AutoConfirmStaff        *bool
	EnforceOpenHours        *bool

	DepositRequired  *bool
	DepositAmount    *decimal.Decimal
	NoShowFeeEnabled *bool
	NoShowFeeAmount  *decimal.Decimal

	QueueModeEnabled         *bool
	QueueDispatchMode        *QueueDispatchMode
	QueueGraceMinutes        *int
	QueuePreCallThreshold    *int
	QueueAssignmentMode      *QueueAssignmentMode
	QueueNoShowOnGraceExpiry *bool
	CheckInEarlyMinutes      *int
	QueueTimezone            *string

	WaitlistEnabled *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAccountWide returns true if the settings apply to the whole account
func (s *PolicySettings) IsAccountWide() bool {
	return s.TeamMemberID == nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
