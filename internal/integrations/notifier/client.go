package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event тело вебхука
type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"event"`
	Recipient  domain.Recipient       `json:"recipient"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Client отправляет события в сервис уведомлений, не дожидаясь результата
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        Logger

	wg sync.WaitGroup
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		log:     log,
	}
}

// Notify fire-and-forget: delivery runs in the background and its outcome is only logged
func (c *Client) Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{}) {
	e := Event{
		ID:         uuid.NewString(),
		Name:       event,
		Recipient:  recipient,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.Send(sendCtx, e); err != nil {
			c.log.Warn("Notify: event=%s id=%s account=%d not delivered: %v", e.Name, e.ID, recipient.AccountID, err)
			return
		}
		c.log.Info("Notify: event=%s id=%s delivered", e.Name, e.ID)
	}()
}

// Send synchronously posts one event
func (c *Client) Send(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", e.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close ожидает завершения отправки уже запущенных событий
func (c *Client) Close() {
	c.wg.Wait()
}

// Nop уведомитель, который ничего не отправляет
type Nop struct{}

func (Nop) Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{}) {
}
