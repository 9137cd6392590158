package update_policy

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UpdatePolicyRequest HTTP request model; отсутствующие поля наследуются от слоя выше
type UpdatePolicyRequest struct {
	TeamMemberID *int64 `json:"teamMemberId,omitempty"`

	BufferMinutes           *int  `json:"bufferMinutes,omitempty"`
	SlotIntervalMinutes     *int  `json:"slotIntervalMinutes,omitempty"`
	MinNoticeMinutes        *int  `json:"minNoticeMinutes,omitempty"`
	MaxAdvanceDays          *int  `json:"maxAdvanceDays,omitempty"`
	CancellationCutoffHours *int  `json:"cancellationCutoffHours,omitempty"`
	AllowClientCancel       *bool `json:"allowClientCancel,omitempty"`
	AllowClientReschedule   *bool `json:"allowClientReschedule,omitempty"`
	AutoConfirmStaff        *bool `json:"autoConfirmStaff,omitempty"`
	EnforceOpenHours        *bool `json:"enforceOpenHours,omitempty"`

	DepositRequired  *bool            `json:"depositRequired,omitempty"`
	DepositAmount    *decimal.Decimal `json:"depositAmount,omitempty"`
	NoShowFeeEnabled *bool            `json:"noShowFeeEnabled,omitempty"`
	NoShowFeeAmount  *decimal.Decimal `json:"noShowFeeAmount,omitempty"`

	QueueModeEnabled         *bool   `json:"queueModeEnabled,omitempty"`
	QueueDispatchMode        *string `json:"queueDispatchMode,omitempty"`
	QueueGraceMinutes        *int    `json:"queueGraceMinutes,omitempty"`
	QueuePreCallThreshold    *int    `json:"queuePreCallThreshold,omitempty"`
	QueueAssignmentMode      *string `json:"queueAssignmentMode,omitempty"`
	QueueNoShowOnGraceExpiry *bool   `json:"queueNoShowOnGraceExpiry,omitempty"`
	CheckInEarlyMinutes      *int    `json:"checkInEarlyMinutes,omitempty"`
	QueueTimezone            *string `json:"queueTimezone,omitempty"`

	WaitlistEnabled *bool `json:"waitlistEnabled,omitempty"`
}

// PolicySettingsResponse сохраненный слой политики
type PolicySettingsResponse struct {
	ID           int64  `json:"id"`
	AccountID    int64  `json:"accountId"`
	TeamMemberID *int64 `json:"teamMemberId,omitempty"`
	*UpdatePolicyRequest
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToDomain конвертирует HTTP запрос в слой политики
func (r *UpdatePolicyRequest) ToDomain(accountID int64) *domain.PolicySettings {
	s := &domain.PolicySettings{
		AccountID:                accountID,
		TeamMemberID:             r.TeamMemberID,
		BufferMinutes:            r.BufferMinutes,
		SlotIntervalMinutes:      r.SlotIntervalMinutes,
		MinNoticeMinutes:         r.MinNoticeMinutes,
		MaxAdvanceDays:           r.MaxAdvanceDays,
		CancellationCutoffHours:  r.CancellationCutoffHours,
		AllowClientCancel:        r.AllowClientCancel,
		AllowClientReschedule:    r.AllowClientReschedule,
		AutoConfirmStaff:         r.AutoConfirmStaff,
		EnforceOpenHours:         r.EnforceOpenHours,
		DepositRequired:          r.DepositRequired,
		DepositAmount:            r.DepositAmount,
		NoShowFeeEnabled:         r.NoShowFeeEnabled,
		NoShowFeeAmount:          r.NoShowFeeAmount,
		QueueModeEnabled:         r.QueueModeEnabled,
		QueueGraceMinutes:        r.QueueGraceMinutes,
		QueuePreCallThreshold:    r.QueuePreCallThreshold,
		QueueNoShowOnGraceExpiry: r.QueueNoShowOnGraceExpiry,
		CheckInEarlyMinutes:      r.CheckInEarlyMinutes,
		QueueTimezone:            r.QueueTimezone,
		WaitlistEnabled:          r.WaitlistEnabled,
	}
	if r.QueueDispatchMode != nil {
		mode := domain.QueueDispatchMode(*r.QueueDispatchMode)
		s.QueueDispatchMode = &mode
	}
	if r.QueueAssignmentMode != nil {
		mode := domain.QueueAssignmentMode(*r.QueueAssignmentMode)
		s.QueueAssignmentMode = &mode
	}
	return s
}

// FromDomain конвертирует сохраненный слой в HTTP response
func FromDomain(s *domain.PolicySettings) *PolicySettingsResponse {
	body := &UpdatePolicyRequest{
		BufferMinutes:            s.BufferMinutes,
		SlotIntervalMinutes:      s.SlotIntervalMinutes,
		MinNoticeMinutes:         s.MinNoticeMinutes,
		MaxAdvanceDays:           s.MaxAdvanceDays,
		CancellationCutoffHours:  s.CancellationCutoffHours,
		AllowClientCancel:        s.AllowClientCancel,
		AllowClientReschedule:    s.AllowClientReschedule,
		AutoConfirmStaff:         s.AutoConfirmStaff,
		EnforceOpenHours:         s.EnforceOpenHours,
		DepositRequired:          s.DepositRequired,
		DepositAmount:            s.DepositAmount,
		NoShowFeeEnabled:         s.NoShowFeeEnabled,
		NoShowFeeAmount:          s.NoShowFeeAmount,
		QueueModeEnabled:         s.QueueModeEnabled,
		QueueGraceMinutes:        s.QueueGraceMinutes,
		QueuePreCallThreshold:    s.QueuePreCallThreshold,
		QueueNoShowOnGraceExpiry: s.QueueNoShowOnGraceExpiry,
		CheckInEarlyMinutes:      s.CheckInEarlyMinutes,
		QueueTimezone:            s.QueueTimezone,
		WaitlistEnabled:          s.WaitlistEnabled,
	}
	if s.QueueDispatchMode != nil {
		mode := string(*s.QueueDispatchMode)
		body.QueueDispatchMode = &mode
	}
	if s.QueueAssignmentMode != nil {
		mode := string(*s.QueueAssignmentMode)
		body.QueueAssignmentMode = &mode
	}

	return &PolicySettingsResponse{
		ID:                  s.ID,
		AccountID:           s.AccountID,
		TeamMemberID:        s.TeamMemberID,
		UpdatePolicyRequest: body,
		CreatedAt:           handlers.FormatTime(s.CreatedAt),
		UpdatedAt:           handlers.FormatTime(s.UpdatedAt),
	}
}
