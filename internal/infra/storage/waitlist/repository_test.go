package waitlist

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var (
	windowStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	stamp       = time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
)

func TestListWaitlist_PendingOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM waitlist_entries WHERE account_id = $1 AND status IN ($2) ORDER BY created_at ASC, id ASC")).
		WithArgs(int64(1), "pending").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(int64(3), int64(1), int64(100), nil, int64(7), "pending",
				windowStart, windowEnd, 60, 1, []byte(`[]`), nil, stamp, stamp))

	got, err := NewRepository(db).ListWaitlist(context.Background(), 1, []domain.WaitlistStatus{domain.WaitlistPending})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, domain.WaitlistPending, got[0].Status)
	assert.Equal(t, ptr.Ptr(int64(7)), got[0].TeamMemberID)
	assert.Equal(t, windowStart, got[0].RequestedStartAt)
	assert.Empty(t, got[0].ResourceFilters)
	assert.Nil(t, got[0].MatchedReservationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWaitlistEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE waitlist_entries SET status = $1, matched_reservation_id = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs("matched", int64(42), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE waitlist_entries SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRepository(db)
	entry := &domain.WaitlistEntry{ID: 3, Status: domain.WaitlistMatched, MatchedReservationID: ptr.Ptr(int64(42))}
	require.NoError(t, repo.UpdateWaitlistEntry(context.Background(), entry))

	entry.ID = 404
	assert.ErrorIs(t, repo.UpdateWaitlistEntry(context.Background(), entry), storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAccountsWithPendingWaitlist(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT account_id FROM waitlist_entries WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(int64(1)).AddRow(int64(4)))

	got, err := NewRepository(db).ListAccountsWithPendingWaitlist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
