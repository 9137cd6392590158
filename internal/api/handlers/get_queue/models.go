package get_queue

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ToFilter разбирает query параметры: teamMemberId, unassigned, status (через запятую), since (RFC3339)
func ToFilter(accountID int64, query url.Values) (domain.QueueFilter, error) {
	filter := domain.QueueFilter{AccountID: accountID}

	if raw := query.Get("teamMemberId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("teamMemberId: %w", err)
		}
		filter.TeamMemberID = &id
	}

	if raw := query.Get("unassigned"); raw != "" {
		unassigned, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("unassigned: %w", err)
		}
		filter.Unassigned = unassigned
	}

	if raw := query.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := domain.QueueItemStatus(strings.TrimSpace(s))
			if !status.IsValid() {
				return filter, fmt.Errorf("unknown status %q", s)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("since: %w", err)
		}
		filter.Since = &since
	}

	return filter, nil
}
