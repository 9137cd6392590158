package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ChargeKind тип списания
type ChargeKind string

const (
	ChargeDeposit   ChargeKind = "deposit"
	ChargeNoShowFee ChargeKind = "no_show_fee"
)

// ChargeRequest тело запроса на списание
type ChargeRequest struct {
	Kind          ChargeKind      `json:"kind"`
	AccountID     int64           `json:"account_id"`
	ReservationID int64           `json:"reservation_id"`
	ClientID      *int64          `json:"client_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// Client клиент биллинга для депозитов и штрафов за неявку
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента биллинга
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChargeDeposit списывает депозит за бронирование
func (c *Client) ChargeDeposit(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error {
	return c.charge(ctx, ChargeDeposit, r, amount)
}

// ChargeNoShowFee списывает штраф за неявку
func (c *Client) ChargeNoShowFee(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error {
	return c.charge(ctx, ChargeNoShowFee, r, amount)
}

func (c *Client) charge(ctx context.Context, kind ChargeKind, r *domain.Reservation, amount decimal.Decimal) error {
	body, err := json.Marshal(ChargeRequest{
		Kind:          kind,
		AccountID:     r.AccountID,
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		Amount:        amount,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode charge: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/charges", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", fmt.Sprintf("%s-%d", kind, r.ID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s for reservation id=%d", ErrChargeDeclined, kind, r.ID)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// Disabled биллинг, отклоняющий любые списания; используется когда [billing].enabled = false
type Disabled struct{}

func (Disabled) ChargeDeposit(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error {
	return fmt.Errorf("%w: billing is disabled", ErrChargeDeclined)
}

func (Disabled) ChargeNoShowFee(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error {
	return fmt.Errorf("%w: billing is disabled", ErrChargeDeclined)
}
