package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	AccountID       int64          `json:"accountId"`
	TeamMemberID    int64          `json:"teamMemberId"`
	Timezone        string         `json:"timezone"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartsAt        string `json:"startsAt"`
	EndsAt          string `json:"endsAt"`
	LocalDate       string `json:"localDate"`
	LocalStart      string `json:"localStart"`
	DurationMinutes int    `json:"durationMinutes"`
}

// ToUseCaseRequest разбирает query параметры: from, to (YYYY-MM-DD), duration, serviceId, limit
func ToUseCaseRequest(accountID, teamMemberID int64, query url.Values) (*getAvailableSlots.Request, error) {
	from, err := time.Parse(time.DateOnly, query.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	to := from
	if raw := query.Get("to"); raw != "" {
		to, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
	}

	req := &getAvailableSlots.Request{
		AccountID:    accountID,
		TeamMemberID: teamMemberID,
		From:         from,
		To:           to,
	}

	if raw := query.Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("serviceId: %w", err)
		}
		req.ServiceID = &serviceID
	}

	if raw := query.Get("duration"); raw != "" {
		if req.DurationMinutes, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
	}

	if raw := query.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("limit: %w", err)
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartsAt:        s.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:          s.EndsAt.UTC().Format(time.RFC3339),
			LocalDate:       s.LocalDate,
			LocalStart:      s.LocalStart,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return &AvailableSlotsResponse{
		AccountID:       resp.AccountID,
		TeamMemberID:    resp.TeamMemberID,
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
