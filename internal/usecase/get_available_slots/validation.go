package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	if req.TeamMemberID <= 0 {
		return fmt.Errorf("%w: teamMemberID must be positive", ErrInvalidInput)
	}

	// Проверяем, что даты не являются нулевыми
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if domain.DateOnly(req.To).Before(domain.DateOnly(req.From)) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	if req.DurationMinutes < 0 || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between 1 and %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.DurationMinutes == 0 && req.ServiceID == nil {
		return fmt.Errorf("%w: duration or serviceId is required", ErrInvalidInput)
	}

	if req.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	return nil
}
