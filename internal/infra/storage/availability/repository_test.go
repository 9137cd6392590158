package availability

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func TestListWeeklyAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_availability WHERE team_member_id = $1 ORDER BY day_of_week ASC, start_time ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_member_id", "day_of_week", "start_time", "end_time", "is_active"}).
			AddRow(int64(1), int64(7), int64(1), "09:00:00", "17:00:00", true))

	got, err := NewRepository(db).ListWeeklyAvailability(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, time.Monday, got[0].DayOfWeek)
	assert.Equal(t, types.MustTimeString("09:00"), got[0].StartTime)
	assert.Equal(t, types.MustTimeString("17:00"), got[0].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailabilityExceptions_AccountAndMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM availability_exceptions WHERE account_id = $1 AND (team_member_id IS NULL OR team_member_id = $2) AND date >= $3 AND date <= $4")).
		WithArgs(int64(1), int64(7), "2026-03-02", "2026-03-08").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "team_member_id", "date", "start_time", "end_time", "type", "reason"}).
			AddRow(int64(1), int64(1), nil, date, nil, nil, "closed", "holiday").
			AddRow(int64(2), int64(1), int64(7), date, "12:00:00", "14:00:00", "custom_hours", nil))

	got, err := NewRepository(db).ListAvailabilityExceptions(context.Background(), 1, 7, date, date.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Nil(t, got[0].TeamMemberID)
	assert.Equal(t, domain.ExceptionClosed, got[0].Type)
	assert.Equal(t, ptr.Ptr("holiday"), got[0].Reason)

	assert.Equal(t, ptr.Ptr(int64(7)), got[1].TeamMemberID)
	assert.Equal(t, domain.ExceptionCustomHours, got[1].Type)
	require.NotNil(t, got[1].StartTime)
	assert.Equal(t, types.MustTimeString("12:00"), *got[1].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAvailabilityException_StoresDateOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO availability_exceptions")).
		WithArgs(int64(1), nil, "2026-03-02", nil, nil, "closed", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	got, err := NewRepository(db).CreateAvailabilityException(context.Background(), domain.AvailabilityException{
		AccountID: 1,
		Date:      time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC),
		Type:      domain.ExceptionClosed,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
