package policy

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ValidateSettings проверяет границы всех заданных полей слоя политики
func ValidateSettings(s *domain.PolicySettings) error {
	if s == nil {
		return fmt.Errorf("%w: settings are required", ErrInvalidInput)
	}
	if s.AccountID <= 0 {
		return fmt.Errorf("%w: accountId must be positive", ErrInvalidInput)
	}

	checks := []struct {
		name     string
		value    *int
		min, max int
	}{
		{"slotIntervalMinutes", s.SlotIntervalMinutes, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes},
		{"bufferMinutes", s.BufferMinutes, domain.MinBufferMinutes, domain.MaxBufferMinutes},
		{"minNoticeMinutes", s.MinNoticeMinutes, domain.MinNoticeMinutes, domain.MaxNoticeMinutes},
		{"maxAdvanceDays", s.MaxAdvanceDays, domain.MinAdvanceDays, domain.MaxAdvanceDays},
		{"cancellationCutoffHours", s.CancellationCutoffHours, 0, domain.MaxCancellationCutoffHours},
		{"queueGraceMinutes", s.QueueGraceMinutes, domain.MinQueueGraceMinutes, domain.MaxQueueGraceMinutes},
		{"queuePreCallThreshold", s.QueuePreCallThreshold, 0, domain.MaxQueuePreCallThreshold},
		{"checkInEarlyMinutes", s.CheckInEarlyMinutes, 0, domain.MaxNoticeMinutes},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if *c.value < c.min || *c.value > c.max {
			return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidInput, c.name, c.min, c.max)
		}
	}

	if s.QueueDispatchMode != nil && !s.QueueDispatchMode.IsValid() {
		return fmt.Errorf("%w: unknown queueDispatchMode %q", ErrInvalidInput, *s.QueueDispatchMode)
	}
	if s.QueueAssignmentMode != nil && !s.QueueAssignmentMode.IsValid() {
		return fmt.Errorf("%w: unknown queueAssignmentMode %q", ErrInvalidInput, *s.QueueAssignmentMode)
	}
	if s.QueueTimezone != nil {
		if !s.IsAccountWide() {
			return fmt.Errorf("%w: queueTimezone is configured on the account layer only", ErrInvalidInput)
		}
		if _, err := time.LoadLocation(*s.QueueTimezone); err != nil || *s.QueueTimezone == "" {
			return fmt.Errorf("%w: unknown queueTimezone %q", ErrInvalidInput, *s.QueueTimezone)
		}
	}
	if s.DepositAmount != nil && s.DepositAmount.IsNegative() {
		return fmt.Errorf("%w: depositAmount must not be negative", ErrInvalidInput)
	}
	if s.NoShowFeeAmount != nil && s.NoShowFeeAmount.IsNegative() {
		return fmt.Errorf("%w: noShowFeeAmount must not be negative", ErrInvalidInput)
	}
	return nil
}
