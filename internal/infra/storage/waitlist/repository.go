package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tableWaitlist = "waitlist_entries"

var entryColumns = []string{
	"id",
	"account_id",
	"client_id",
	"service_id",
	"team_member_id",
	"status",
	"requested_start_at",
	"requested_end_at",
	"duration_minutes",
	"party_size",
	"resource_filters",
	"matched_reservation_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий листа ожидания
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateWaitlistEntry добавляет запись в лист ожидания
func (r *Repository) CreateWaitlistEntry(ctx context.Context, w *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableWaitlist).
		Columns(
			"account_id",
			"client_id",
			"service_id",
			"team_member_id",
			"status",
			"requested_start_at",
			"requested_end_at",
			"duration_minutes",
			"party_size",
			"resource_filters",
			"matched_reservation_id",
		).
		Values(
			w.AccountID,
			w.ClientID,
			w.ServiceID,
			w.TeamMemberID,
			w.Status,
			w.RequestedStartAt.UTC(),
			w.RequestedEndAt.UTC(),
			w.DurationMinutes,
			w.PartySize,
			filtersValue(w.ResourceFilters),
			w.MatchedReservationID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWaitlistEntry - build insert query: %v", ErrBuildQuery, err)
	}

	stored := w.Clone()
	err = executor.QueryRowContext(ctx, query, args...).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWaitlistEntry - execute insert: %w", ErrExecQuery, err)
	}
	return stored, nil
}

// GetWaitlistEntry получает запись по ID
func (r *Repository) GetWaitlistEntry(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From(tableWaitlist).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWaitlistEntry - build select query: %v", ErrBuildQuery, err)
	}

	w, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrEntryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWaitlistEntry - scan entry: %w", ErrScanRow, err)
	}
	return w, nil
}

// UpdateWaitlistEntry сохраняет статус и ссылку на созданное бронирование
func (r *Repository) UpdateWaitlistEntry(ctx context.Context, w *domain.WaitlistEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableWaitlist).
		Set("status", w.Status).
		Set("matched_reservation_id", w.MatchedReservationID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateWaitlistEntry - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWaitlistEntry - execute update: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWaitlistEntry - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", ErrEntryNotFound, w.ID)
	}
	return nil
}

// ListWaitlist получает записи аккаунта с указанными статусами, старые первыми
func (r *Repository) ListWaitlist(ctx context.Context, accountID int64, statuses []domain.WaitlistStatus) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From(tableWaitlist).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("created_at ASC", "id ASC")

	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": values})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWaitlist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWaitlist - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		w, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWaitlist - scan row: %w", ErrScanRow, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWaitlist - rows error: %w", ErrScanRow, err)
	}
	return out, nil
}

// ListAccountsWithPendingWaitlist получает аккаунты, у которых есть ожидающие записи
func (r *Repository) ListAccountsWithPendingWaitlist(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT account_id").
		From(tableWaitlist).
		Where(squirrel.Eq{"status": string(domain.WaitlistPending)}).
		OrderBy("account_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAccountsWithPendingWaitlist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAccountsWithPendingWaitlist - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	accountIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListAccountsWithPendingWaitlist - scan account_id: %w", ErrScanRow, err)
		}
		accountIDs = append(accountIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAccountsWithPendingWaitlist - rows error: %w", ErrScanRow, err)
	}
	return accountIDs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var w domain.WaitlistEntry
	err := row.Scan(
		&w.ID,
		&w.AccountID,
		&w.ClientID,
		&w.ServiceID,
		&w.TeamMemberID,
		&w.Status,
		&w.RequestedStartAt,
		&w.RequestedEndAt,
		&w.DurationMinutes,
		&w.PartySize,
		storage.JSONB[[]domain.ResourceFilter]{V: &w.ResourceFilters},
		&w.MatchedReservationID,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.RequestedStartAt = w.RequestedStartAt.UTC()
	w.RequestedEndAt = w.RequestedEndAt.UTC()
	return &w, nil
}

func filtersValue(filters []domain.ResourceFilter) storage.JSONB[[]domain.ResourceFilter] {
	if filters == nil {
		filters = []domain.ResourceFilter{}
	}
	return storage.JSONB[[]domain.ResourceFilter]{V: &filters}
}
