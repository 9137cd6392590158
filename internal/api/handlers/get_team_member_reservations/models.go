package get_team_member_reservations

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ListParams разобранные query параметры
type ListParams struct {
	From     time.Time
	To       time.Time
	Statuses []domain.ReservationStatus
}

// ParseListParams from, to (RFC3339, обязательны), status=pending,confirmed
func ParseListParams(query url.Values) (*ListParams, error) {
	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("to must be after from")
	}

	params := &ListParams{From: from, To: to}
	if raw := query.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := domain.ReservationStatus(strings.TrimSpace(s))
			if !status.IsValid() {
				return nil, fmt.Errorf("unknown status %q", s)
			}
			params.Statuses = append(params.Statuses, status)
		}
	}
	return params, nil
}
