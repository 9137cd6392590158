package get_policy

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// PolicyResponse действующая политика после слияния слоев
type PolicyResponse struct {
	AccountID               int64  `json:"accountId"`
	TeamMemberID            *int64 `json:"teamMemberId,omitempty"`
	BufferMinutes           int    `json:"bufferMinutes"`
	SlotIntervalMinutes     int    `json:"slotIntervalMinutes"`
	MinNoticeMinutes        int    `json:"minNoticeMinutes"`
	MaxAdvanceDays          int    `json:"maxAdvanceDays"`
	CancellationCutoffHours int    `json:"cancellationCutoffHours"`
	AllowClientCancel       bool   `json:"allowClientCancel"`
	AllowClientReschedule   bool   `json:"allowClientReschedule"`
	AutoConfirmStaff        bool   `json:"autoConfirmStaff"`
	EnforceOpenHours        bool   `json:"enforceOpenHours"`

	DepositRequired  bool   `json:"depositRequired"`
	DepositAmount    string `json:"depositAmount"`
	NoShowFeeEnabled bool   `json:"noShowFeeEnabled"`
	NoShowFeeAmount  string `json:"noShowFeeAmount"`

	QueueModeEnabled         bool   `json:"queueModeEnabled"`
	QueueDispatchMode        string `json:"queueDispatchMode"`
	QueueGraceMinutes        int    `json:"queueGraceMinutes"`
	QueuePreCallThreshold    int    `json:"queuePreCallThreshold"`
	QueueAssignmentMode      string `json:"queueAssignmentMode"`
	QueueNoShowOnGraceExpiry bool   `json:"queueNoShowOnGraceExpiry"`
	CheckInEarlyMinutes      int    `json:"checkInEarlyMinutes"`
	QueueTimezone            string `json:"queueTimezone"`

	WaitlistEnabled bool `json:"waitlistEnabled"`
}

// FromPolicy конвертирует политику в HTTP response
func FromPolicy(p domain.SchedulingPolicy) *PolicyResponse {
	return &PolicyResponse{
		AccountID:                p.AccountID,
		TeamMemberID:             p.TeamMemberID,
		BufferMinutes:            p.BufferMinutes,
		SlotIntervalMinutes:      p.SlotIntervalMinutes,
		MinNoticeMinutes:         p.MinNoticeMinutes,
		MaxAdvanceDays:           p.MaxAdvanceDays,
		CancellationCutoffHours:  p.CancellationCutoffHours,
		AllowClientCancel:        p.AllowClientCancel,
		AllowClientReschedule:    p.AllowClientReschedule,
		AutoConfirmStaff:         p.AutoConfirmStaff,
		EnforceOpenHours:         p.EnforceOpenHours,
		DepositRequired:          p.DepositRequired,
		DepositAmount:            p.DepositAmount.StringFixed(2),
		NoShowFeeEnabled:         p.NoShowFeeEnabled,
		NoShowFeeAmount:          p.NoShowFeeAmount.StringFixed(2),
		QueueModeEnabled:         p.QueueModeEnabled,
		QueueDispatchMode:        string(p.QueueDispatchMode),
		QueueGraceMinutes:        p.QueueGraceMinutes,
		QueuePreCallThreshold:    p.QueuePreCallThreshold,
		QueueAssignmentMode:      string(p.QueueAssignmentMode),
		QueueNoShowOnGraceExpiry: p.QueueNoShowOnGraceExpiry,
		CheckInEarlyMinutes:      p.CheckInEarlyMinutes,
		QueueTimezone:            p.QueueTimezone,
		WaitlistEnabled:          p.WaitlistEnabled,
	}
}
