package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func TestClient_TeamMember(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/team-members/7":
			_, _ = w.Write([]byte(`{"id":7,"account_id":1,"timezone":"Europe/Moscow"}`))
		case "/internal/services/3":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.Nop())

	tm, err := c.TeamMember(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tm.AccountID)
	assert.Equal(t, "Europe/Moscow", tm.Timezone)

	_, err = c.TeamMember(context.Background(), 8)
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)

	_, err = c.Service(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Client(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internal/clients/100" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":100,"display_name":"Анна","email":"anna@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.Nop())

	cl, err := c.Client(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), cl.ID)
	assert.Equal(t, "Анна", cl.DisplayName)
	require.NotNil(t, cl.Email)
	assert.Equal(t, "anna@example.com", *cl.Email)
	assert.Nil(t, cl.Phone)

	_, err = c.Client(context.Background(), 101)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
