package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func TestClient_NotifyDeliversInBackground(t *testing.T) {
	var (
		mu       sync.Mutex
		received []Event
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		assert.Equal(t, e.ID, r.Header.Get("Idempotency-Key"))

		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.Nop())
	c.Notify(context.Background(), domain.EventReservationCreated, domain.Recipient{AccountID: 1},
		map[string]interface{}{"reservation_id": 10})
	c.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, domain.EventReservationCreated, received[0].Name)
	assert.NotEmpty(t, received[0].ID)
	assert.Equal(t, float64(10), received[0].Payload["reservation_id"])
}

func TestClient_SendReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.Nop())
	err := c.Send(context.Background(), Event{ID: "x", Name: "y"})

	assert.ErrorIs(t, err, ErrInvalidResponse)
}
