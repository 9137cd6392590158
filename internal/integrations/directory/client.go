package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент справочника сотрудников, услуг и клиентов платформы
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// TeamMember получает часовой пояс и аккаунт сотрудника
func (c *Client) TeamMember(ctx context.Context, id int64) (*domain.TeamMember, error) {
	var tm TeamMember
	if err := c.get(ctx, fmt.Sprintf("%s/internal/team-members/%d", c.baseURL, id), ErrTeamMemberNotFound, &tm); err != nil {
		return nil, err
	}
	return tm.toDomain(), nil
}

// Service получает длительность услуги по умолчанию
func (c *Client) Service(ctx context.Context, id int64) (*domain.Service, error) {
	var s Service
	if err := c.get(ctx, fmt.Sprintf("%s/internal/services/%d", c.baseURL, id), ErrServiceNotFound, &s); err != nil {
		return nil, err
	}
	return s.toDomain(), nil
}

// Client получает отображаемые данные клиента
func (c *Client) Client(ctx context.Context, id int64) (*domain.Client, error) {
	var cl clientDTO
	if err := c.get(ctx, fmt.Sprintf("%s/internal/clients/%d", c.baseURL, id), ErrClientNotFound, &cl); err != nil {
		return nil, err
	}
	return cl.toDomain(), nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Directory request failed url=%s: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid identifier format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
