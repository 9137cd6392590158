package handlers

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ResourceFilter запрошенный ресурс: конкретный id или тип
type ResourceFilter struct {
	ResourceID *int64  `json:"resourceId,omitempty"`
	Type       *string `json:"type,omitempty"`
	Quantity   int     `json:"quantity"`
}

// ReservationResponse HTTP модель бронирования
type ReservationResponse struct {
	ID                 int64             `json:"id"`
	AccountID          int64             `json:"accountId"`
	TeamMemberID       int64             `json:"teamMemberId"`
	ClientID           *int64            `json:"clientId,omitempty"`
	ServiceID          *int64            `json:"serviceId,omitempty"`
	Status             string            `json:"status"`
	Source             string            `json:"source"`
	Timezone           string            `json:"timezone"`
	StartsAt           string            `json:"startsAt"`
	EndsAt             string            `json:"endsAt"`
	DurationMinutes    int               `json:"durationMinutes"`
	BufferMinutes      int               `json:"bufferMinutes"`
	Notes              *string           `json:"notes,omitempty"`
	CancelledAt        *string           `json:"cancelledAt,omitempty"`
	CancellationReason *string           `json:"cancellationReason,omitempty"`
	RescheduledFromID  *int64            `json:"rescheduledFromId,omitempty"`
	ResourceFilters    []ResourceFilter  `json:"resourceFilters,omitempty"`
	Allocations        []Allocation      `json:"allocations,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CreatedAt          string            `json:"createdAt"`
	UpdatedAt          string            `json:"updatedAt"`
}

// Allocation выделенный бронированию ресурс
type Allocation struct {
	ResourceID int64 `json:"resourceId"`
	Quantity   int   `json:"quantity"`
}

// QueueItemResponse HTTP модель элемента очереди
type QueueItemResponse struct {
	ID                       int64   `json:"id"`
	AccountID                int64   `json:"accountId"`
	ReservationID            *int64  `json:"reservationId,omitempty"`
	ClientID                 *int64  `json:"clientId,omitempty"`
	ServiceID                *int64  `json:"serviceId,omitempty"`
	TeamMemberID             *int64  `json:"teamMemberId,omitempty"`
	ItemType                 string  `json:"itemType"`
	Source                   string  `json:"source"`
	QueueNumber              int     `json:"queueNumber"`
	Status                   string  `json:"status"`
	Priority                 int     `json:"priority"`
	EstimatedDurationMinutes int     `json:"estimatedDurationMinutes"`
	Position                 int     `json:"position"`
	EtaMinutes               int     `json:"etaMinutes"`
	CheckedInAt              string  `json:"checkedInAt"`
	CalledAt                 *string `json:"calledAt,omitempty"`
	CallExpiresAt            *string `json:"callExpiresAt,omitempty"`
	StartedAt                *string `json:"startedAt,omitempty"`
	FinishedAt               *string `json:"finishedAt,omitempty"`
}

// WaitlistEntryResponse HTTP модель записи листа ожидания
type WaitlistEntryResponse struct {
	ID                   int64            `json:"id"`
	AccountID            int64            `json:"accountId"`
	ClientID             *int64           `json:"clientId,omitempty"`
	ServiceID            *int64           `json:"serviceId,omitempty"`
	TeamMemberID         *int64           `json:"teamMemberId,omitempty"`
	Status               string           `json:"status"`
	RequestedStartAt     string           `json:"requestedStartAt"`
	RequestedEndAt       string           `json:"requestedEndAt"`
	DurationMinutes      int              `json:"durationMinutes"`
	PartySize            int              `json:"partySize"`
	ResourceFilters      []ResourceFilter `json:"resourceFilters,omitempty"`
	MatchedReservationID *int64           `json:"matchedReservationId,omitempty"`
	CreatedAt            string           `json:"createdAt"`
}

// ToDomainFilters конвертирует фильтры ресурсов из запроса
func ToDomainFilters(filters []ResourceFilter) []domain.ResourceFilter {
	if len(filters) == 0 {
		return nil
	}
	out := make([]domain.ResourceFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, domain.ResourceFilter{ResourceID: f.ResourceID, Type: f.Type, Quantity: f.Quantity})
	}
	return out
}

func fromDomainFilters(filters []domain.ResourceFilter) []ResourceFilter {
	if len(filters) == 0 {
		return nil
	}
	out := make([]ResourceFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, ResourceFilter{ResourceID: f.ResourceID, Type: f.Type, Quantity: f.Quantity})
	}
	return out
}

// FromReservation конвертирует доменное бронирование в HTTP модель
func FromReservation(r *domain.Reservation, allocations []domain.Allocation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:                 r.ID,
		AccountID:          r.AccountID,
		TeamMemberID:       r.TeamMemberID,
		ClientID:           r.ClientID,
		ServiceID:          r.ServiceID,
		Status:             string(r.Status),
		Source:             string(r.Source),
		Timezone:           r.Timezone,
		StartsAt:           FormatTime(r.StartsAt),
		EndsAt:             FormatTime(r.EndsAt),
		DurationMinutes:    r.DurationMinutes,
		BufferMinutes:      r.BufferMinutes,
		Notes:              r.Notes,
		CancelledAt:        FormatTimePtr(r.CancelledAt),
		CancellationReason: r.CancellationReason,
		RescheduledFromID:  r.RescheduledFromID,
		ResourceFilters:    fromDomainFilters(r.ResourceFilters),
		Metadata:           r.Metadata,
		CreatedAt:          FormatTime(r.CreatedAt),
		UpdatedAt:          FormatTime(r.UpdatedAt),
	}
	for _, a := range allocations {
		resp.Allocations = append(resp.Allocations, Allocation{ResourceID: a.ResourceID, Quantity: a.Quantity})
	}
	return resp
}

// FromReservations конвертирует список бронирований
func FromReservations(list []*domain.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromReservation(r, nil))
	}
	return out
}

// FromQueueItem конвертирует элемент очереди
func FromQueueItem(item *domain.QueueItem) *QueueItemResponse {
	return &QueueItemResponse{
		ID:                       item.ID,
		AccountID:                item.AccountID,
		ReservationID:            item.ReservationID,
		ClientID:                 item.ClientID,
		ServiceID:                item.ServiceID,
		TeamMemberID:             item.TeamMemberID,
		ItemType:                 string(item.ItemType),
		Source:                   string(item.Source),
		QueueNumber:              item.QueueNumber,
		Status:                   string(item.Status),
		Priority:                 item.Priority,
		EstimatedDurationMinutes: item.EstimatedDurationMinutes,
		Position:                 item.Position,
		EtaMinutes:               item.EtaMinutes,
		CheckedInAt:              FormatTime(item.CheckedInAt),
		CalledAt:                 FormatTimePtr(item.CalledAt),
		CallExpiresAt:            FormatTimePtr(item.CallExpiresAt),
		StartedAt:                FormatTimePtr(item.StartedAt),
		FinishedAt:               FormatTimePtr(item.FinishedAt),
	}
}

// FromWaitlistEntry конвертирует запись листа ожидания
func FromWaitlistEntry(e *domain.WaitlistEntry) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:                   e.ID,
		AccountID:            e.AccountID,
		ClientID:             e.ClientID,
		ServiceID:            e.ServiceID,
		TeamMemberID:         e.TeamMemberID,
		Status:               string(e.Status),
		RequestedStartAt:     FormatTime(e.RequestedStartAt),
		RequestedEndAt:       FormatTime(e.RequestedEndAt),
		DurationMinutes:      e.DurationMinutes,
		PartySize:            e.PartySize,
		ResourceFilters:      fromDomainFilters(e.ResourceFilters),
		MatchedReservationID: e.MatchedReservationID,
		CreatedAt:            FormatTime(e.CreatedAt),
	}
}
