package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: overlap", domain.ErrSlotConflict), http.StatusConflict},
		{fmt.Errorf("%w: chairs", domain.ErrResourceUnavailable), http.StatusConflict},
		{fmt.Errorf("%w: notice", domain.ErrOutOfPolicyWindow), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: done -> pending", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: item 4", domain.ErrQueueGraceExpired), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: team member", domain.ErrUnknownEntity), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.True(t, RespondDomainError(rec, tc.err))
			assert.Equal(t, tc.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Code)
			assert.Equal(t, tc.err.Error(), body.Detail)
		})
	}

	rec := httptest.NewRecorder()
	assert.False(t, RespondDomainError(rec, fmt.Errorf("boom")))
	assert.Equal(t, 0, rec.Body.Len())
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "a", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42", "bad": "-1"})

	id, err := PathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathID(r, "bad")
	assert.Error(t, err)
	_, err = PathID(r, "missing")
	assert.Error(t, err)
}

func TestQueryID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?teamMemberId=7&bad=x", nil)

	id, err := QueryID(r, "teamMemberId")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)

	id, err = QueryID(r, "absent")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = QueryID(r, "bad")
	assert.Error(t, err)
}
