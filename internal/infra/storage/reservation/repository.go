package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	tableReservations = "reservations"
	tableAllocations  = "reservation_allocations"
)

var reservationColumns = []string{
	"id",
	"account_id",
	"team_member_id",
	"client_id",
	"service_id",
	"status",
	"source",
	"timezone",
	"starts_at",
	"ends_at",
	"duration_minutes",
	"buffer_minutes",
	"notes",
	"cancelled_at",
	"cancellation_reason",
	"rescheduled_from_id",
	"resource_filters",
	"metadata",
	"created_at",
	"updated_at",
}

// Footprint бронирования в SQL: [starts_at - buffer, ends_at + buffer)
const (
	footprintStart = "starts_at - make_interval(mins => buffer_minutes)"
	footprintEnd   = "ends_at + make_interval(mins => buffer_minutes)"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateReservation создает бронирование вместе с распределением ресурсов.
// Вызывается внутри транзакции коммита (dbmetrics.WithTx).
func (r *Repository) CreateReservation(ctx context.Context, res *domain.Reservation, allocs []domain.Allocation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableReservations).
		Columns(
			"account_id",
			"team_member_id",
			"client_id",
			"service_id",
			"status",
			"source",
			"timezone",
			"starts_at",
			"ends_at",
			"duration_minutes",
			"buffer_minutes",
			"notes",
			"cancelled_at",
			"cancellation_reason",
			"rescheduled_from_id",
			"resource_filters",
			"metadata",
		).
		Values(
			res.AccountID,
			res.TeamMemberID,
			res.ClientID,
			res.ServiceID,
			res.Status,
			res.Source,
			res.Timezone,
			res.StartsAt.UTC(),
			res.EndsAt.UTC(),
			res.DurationMinutes,
			res.BufferMinutes,
			res.Notes,
			res.CancelledAt,
			res.CancellationReason,
			res.RescheduledFromID,
			filtersValue(res.ResourceFilters),
			metadataValue(res.Metadata),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateReservation - build insert query: %v", ErrBuildQuery, err)
	}

	stored := res.Clone()
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stored.ID,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateReservation - execute insert: %w", ErrExecQuery, err)
	}

	if err := r.insertAllocations(ctx, stored.ID, allocs); err != nil {
		return nil, err
	}

	return stored, nil
}

// GetReservation получает бронирование по ID
func (r *Repository) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrReservationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// ListReservations получает бронирования по фильтру, упорядоченные по starts_at.
// Период фильтруется по footprint (интервал с буфером).
// Внутри транзакции строки сотрудника блокируются FOR UPDATE.
func (r *Repository) ListReservations(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		OrderBy("starts_at ASC", "id ASC")

	if filter.AccountID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"account_id": *filter.AccountID})
	}
	if filter.TeamMemberID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": *filter.TeamMemberID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(footprintEnd+" > ?", filter.From.UTC()))
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(footprintStart+" < ?", filter.To.UTC()))
	}

	if dbmetrics.IsInTransaction(ctx) && filter.TeamMemberID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservations - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListReservations - scan row: %w", ErrScanRow, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListReservations - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}

// UpdateReservation перезаписывает изменяемые поля бронирования
func (r *Repository) UpdateReservation(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableReservations).
		Set("status", res.Status).
		Set("notes", res.Notes).
		Set("cancelled_at", res.CancelledAt).
		Set("cancellation_reason", res.CancellationReason).
		Set("metadata", metadataValue(res.Metadata)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateReservation - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateReservation - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateReservation - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", ErrReservationNotFound, res.ID)
	}

	return nil
}

// ReleaseReservation сохраняет бронирование, переставшее блокировать время, и снимает его ресурсы
func (r *Repository) ReleaseReservation(ctx context.Context, res *domain.Reservation) error {
	if err := r.UpdateReservation(ctx, res); err != nil {
		return err
	}
	return r.deleteAllocations(ctx, res.ID)
}

// RescheduleReservation освобождает исходное бронирование и создает замену.
// Атомарность обеспечивает внешняя транзакция.
func (r *Repository) RescheduleReservation(ctx context.Context, original, next *domain.Reservation, allocs []domain.Allocation) (*domain.Reservation, error) {
	if err := r.ReleaseReservation(ctx, original); err != nil {
		return nil, err
	}
	return r.CreateReservation(ctx, next, allocs)
}

// ListAllocations получает распределение ресурсов бронирования
func (r *Repository) ListAllocations(ctx context.Context, reservationID int64) ([]domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("reservation_id", "resource_id", "quantity").
		From(tableAllocations).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("resource_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAllocations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAllocations - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]domain.Allocation, 0)
	for rows.Next() {
		var a domain.Allocation
		if err := rows.Scan(&a.ReservationID, &a.ResourceID, &a.Quantity); err != nil {
			return nil, fmt.Errorf("%w: ListAllocations - scan row: %w", ErrScanRow, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAllocations - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}

// ListResourceUsage получает распределения блокирующих бронирований,
// чей footprint пересекается с окном
func (r *Repository) ListResourceUsage(ctx context.Context, resourceIDs []int64, window domain.Interval) ([]domain.ResourceUsage, error) {
	if len(resourceIDs) == 0 {
		return []domain.ResourceUsage{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.resource_id",
		"a.reservation_id",
		"a.quantity",
		"r.starts_at",
		"r.ends_at",
		"r.buffer_minutes",
	).
		From(tableAllocations+" a").
		Join(tableReservations+" r ON r.id = a.reservation_id").
		Where(squirrel.Eq{"a.resource_id": resourceIDs}).
		Where(squirrel.Eq{"r.status": statusStrings(domain.BlockingStatuses)}).
		Where(squirrel.Expr("r.ends_at + make_interval(mins => r.buffer_minutes) > ?", window.Start.UTC())).
		Where(squirrel.Expr("r.starts_at - make_interval(mins => r.buffer_minutes) < ?", window.End.UTC())).
		OrderBy("a.resource_id ASC", "r.starts_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListResourceUsage - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListResourceUsage - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]domain.ResourceUsage, 0)
	for rows.Next() {
		var (
			u             domain.ResourceUsage
			start, end    time.Time
			bufferMinutes int
		)
		if err := rows.Scan(&u.ResourceID, &u.ReservationID, &u.Quantity, &start, &end, &bufferMinutes); err != nil {
			return nil, fmt.Errorf("%w: ListResourceUsage - scan row: %w", ErrScanRow, err)
		}
		u.Footprint = domain.Footprint(domain.Interval{Start: start.UTC(), End: end.UTC()}, bufferMinutes)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListResourceUsage - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}

func (r *Repository) insertAllocations(ctx context.Context, reservationID int64, allocs []domain.Allocation) error {
	if len(allocs) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(tableAllocations).Columns("reservation_id", "resource_id", "quantity")
	for _, a := range allocs {
		insert = insert.Values(reservationID, a.ResourceID, a.Quantity)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertAllocations - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertAllocations - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) deleteAllocations(ctx context.Context, reservationID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableAllocations).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: deleteAllocations - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: deleteAllocations - execute delete: %w", ErrExecQuery, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.AccountID,
		&res.TeamMemberID,
		&res.ClientID,
		&res.ServiceID,
		&res.Status,
		&res.Source,
		&res.Timezone,
		&res.StartsAt,
		&res.EndsAt,
		&res.DurationMinutes,
		&res.BufferMinutes,
		&res.Notes,
		&res.CancelledAt,
		&res.CancellationReason,
		&res.RescheduledFromID,
		storage.JSONB[[]domain.ResourceFilter]{V: &res.ResourceFilters},
		storage.JSONB[map[string]string]{V: &res.Metadata},
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.StartsAt = res.StartsAt.UTC()
	res.EndsAt = res.EndsAt.UTC()
	return &res, nil
}

func filtersValue(filters []domain.ResourceFilter) storage.JSONB[[]domain.ResourceFilter] {
	if filters == nil {
		filters = []domain.ResourceFilter{}
	}
	return storage.JSONB[[]domain.ResourceFilter]{V: &filters}
}

func metadataValue(meta map[string]string) storage.JSONB[map[string]string] {
	if meta == nil {
		meta = map[string]string{}
	}
	return storage.JSONB[map[string]string]{V: &meta}
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
