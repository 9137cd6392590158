package resource

import (
	"context"
	"database/sql"
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

var stamp = time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)

func TestListResources(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM resources WHERE account_id = $1 ORDER BY id ASC")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(resourceColumns).
			AddRow(int64(5), int64(1), nil, "Room A", "room", 1, true, stamp).
			AddRow(int64(6), int64(1), int64(7), "Chair", "chair", 2, false, stamp))

	got, err := NewRepository(db).ListResources(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Nil(t, got[0].TeamMemberID)
	assert.Equal(t, "Room A", got[0].Name)
	assert.Equal(t, 1, got[0].Capacity)
	assert.Equal(t, ptr.Ptr(int64(7)), got[1].TeamMemberID)
	assert.False(t, got[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResource_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM resources WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = NewRepository(db).GetResource(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateResource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO resources (account_id,team_member_id,name,type,capacity,is_active)")).
		WithArgs(int64(1), nil, "Room A", "room", 1, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), stamp))

	got, err := NewRepository(db).CreateResource(context.Background(), domain.Resource{
		AccountID: 1, Name: "Room A", Type: "room", Capacity: 1, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, stamp, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
