package directory

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// TeamMember модель сотрудника из справочника
type TeamMember struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Timezone  string `json:"timezone"`
}

// Service модель услуги из справочника
type Service struct {
	ID              int64 `json:"id"`
	AccountID       int64 `json:"account_id"`
	DurationMinutes int   `json:"duration_minutes"`
}

// clientDTO модель клиента из справочника
type clientDTO struct {
	ID          int64   `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *TeamMember) toDomain() *domain.TeamMember {
	return &domain.TeamMember{ID: t.ID, AccountID: t.AccountID, Timezone: t.Timezone}
}

func (s *Service) toDomain() *domain.Service {
	return &domain.Service{ID: s.ID, AccountID: s.AccountID, DurationMinutes: s.DurationMinutes}
}

func (c *clientDTO) toDomain() *domain.Client {
	return &domain.Client{ID: c.ID, DisplayName: c.DisplayName, Email: c.Email, Phone: c.Phone}
}
