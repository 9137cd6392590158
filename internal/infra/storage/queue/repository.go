package queue

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
	tableItems    = "queue_items"
	tableNumbers  = "queue_numbers"
	tableCheckIns = "reservation_check_ins"
)

var itemColumns = []string{
	"id",
	"account_id",
	"reservation_id",
	"client_id",
	"service_id",
	"team_member_id",
	"item_type",
	"source",
	"queue_number",
	"status",
	"priority",
	"estimated_duration_minutes",
	"checked_in_at",
	"pre_called_at",
	"called_at",
	"call_expires_at",
	"started_at",
	"finished_at",
	"cancelled_at",
	"left_at",
	"skipped_at",
	"no_show_at",
	"position",
	"eta_minutes",
	"metadata",
	"created_at",
	"updated_at",
}

// Repository репозиторий живой очереди
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория очереди
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextQueueNumber выдает следующий номер аккаунта за локальный день
func (r *Repository) NextQueueNumber(ctx context.Context, accountID int64, day time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableNumbers).
		Columns("account_id", "day", "last_value").
		Values(accountID, day.Format(domain.DateFormat), 1).
		Suffix("ON CONFLICT (account_id, day) DO UPDATE SET last_value = queue_numbers.last_value + 1").
		Suffix("RETURNING last_value").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: NextQueueNumber - build upsert query: %v", ErrBuildQuery, err)
	}

	var number int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&number); err != nil {
		return 0, fmt.Errorf("%w: NextQueueNumber - execute upsert: %w", ErrExecQuery, err)
	}
	return number, nil
}

// CreateQueueItem добавляет элемент очереди
func (r *Repository) CreateQueueItem(ctx context.Context, item *domain.QueueItem) (*domain.QueueItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := itemColumns[1 : len(itemColumns)-2]
	query, args, err := psqlbuilder.Insert(tableItems).
		Columns(columns...).
		Values(itemValues(item)...).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateQueueItem - build insert query: %v", ErrBuildQuery, err)
	}

	stored := item.Clone()
	err = executor.QueryRowContext(ctx, query, args...).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateQueueItem - execute insert: %w", ErrExecQuery, err)
	}
	return stored, nil
}

// GetQueueItem получает элемент очереди по ID
func (r *Repository) GetQueueItem(ctx context.Context, id int64) (*domain.QueueItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(itemColumns...).
		From(tableItems).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetQueueItem - build select query: %v", ErrBuildQuery, err)
	}

	item, err := scanItem(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrItemNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetQueueItem - scan item: %w", ErrScanRow, err)
	}
	return item, nil
}

// UpdateQueueItems перезаписывает несколько элементов; вызывается внутри транзакции
func (r *Repository) UpdateQueueItems(ctx context.Context, items []*domain.QueueItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, item := range items {
		update := psqlbuilder.Update(tableItems)
		values := itemValues(item)
		for i, c := range itemColumns[1 : len(itemColumns)-2] {
			update = update.Set(c, values[i])
		}

		query, args, err := update.
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": item.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateQueueItems - build update query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: UpdateQueueItems - execute update id=%d: %w", ErrExecQuery, item.ID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: UpdateQueueItems - get rows affected: %w", ErrExecQuery, err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: id=%d", ErrItemNotFound, item.ID)
		}
	}
	return nil
}

// ListQueueItems получает элементы по фильтру, упорядоченные по checked_in_at
func (r *Repository) ListQueueItems(ctx context.Context, filter domain.QueueFilter) ([]*domain.QueueItem, error) {
	selectBuilder := psqlbuilder.Select(itemColumns...).
		From(tableItems).
		Where(squirrel.Eq{"account_id": filter.AccountID}).
		OrderBy("checked_in_at ASC", "id ASC")

	if filter.Unassigned {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": nil})
	}
	if filter.TeamMemberID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"team_member_id": *filter.TeamMemberID})
	}
	if len(filter.Statuses) > 0 {
		values := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			values[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": values})
	}
	if filter.Since != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"checked_in_at": filter.Since.UTC()})
	}
	if filter.ReservationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"reservation_id": *filter.ReservationID})
	}

	return r.selectItems(ctx, "ListQueueItems", selectBuilder)
}

// ListExpiredCalls получает вызванные элементы, чей срок явки истек к now
func (r *Repository) ListExpiredCalls(ctx context.Context, now time.Time, limit int) ([]*domain.QueueItem, error) {
	selectBuilder := psqlbuilder.Select(itemColumns...).
		From(tableItems).
		Where(squirrel.Eq{"status": string(domain.QueueCalled)}).
		Where(squirrel.LtOrEq{"call_expires_at": now.UTC()}).
		OrderBy("call_expires_at ASC", "id ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	return r.selectItems(ctx, "ListExpiredCalls", selectBuilder)
}

// AppendCheckIn сохраняет неизменяемую запись о явке или вызове
func (r *Repository) AppendCheckIn(ctx context.Context, c domain.CheckIn) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableCheckIns).
		Columns("id", "account_id", "queue_item_id", "reservation_id", "channel", "grace_deadline", "created_at").
		Values(c.ID, c.AccountID, c.QueueItemID, c.ReservationID, c.Channel, c.GraceDeadline, c.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendCheckIn - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendCheckIn - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// ListCheckIns получает записи о явке элемента очереди в порядке создания
func (r *Repository) ListCheckIns(ctx context.Context, queueItemID int64) ([]domain.CheckIn, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "account_id", "queue_item_id", "reservation_id", "channel", "grace_deadline", "created_at").
		From(tableCheckIns).
		Where(squirrel.Eq{"queue_item_id": queueItemID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListCheckIns - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCheckIns - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]domain.CheckIn, 0)
	for rows.Next() {
		var c domain.CheckIn
		if err := rows.Scan(&c.ID, &c.AccountID, &c.QueueItemID, &c.ReservationID, &c.Channel, &c.GraceDeadline, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListCheckIns - scan row: %w", ErrScanRow, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCheckIns - rows error: %w", ErrScanRow, err)
	}
	return out, nil
}

func (r *Repository) selectItems(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.QueueItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	out := make([]*domain.QueueItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}
	return out, nil
}

// itemValues значения изменяемых колонок (itemColumns без id, created_at, updated_at)
func itemValues(item *domain.QueueItem) []interface{} {
	meta := item.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	return []interface{}{
		item.AccountID,
		item.ReservationID,
		item.ClientID,
		item.ServiceID,
		item.TeamMemberID,
		item.ItemType,
		item.Source,
		item.QueueNumber,
		item.Status,
		item.Priority,
		item.EstimatedDurationMinutes,
		item.CheckedInAt.UTC(),
		item.PreCalledAt,
		item.CalledAt,
		item.CallExpiresAt,
		item.StartedAt,
		item.FinishedAt,
		item.CancelledAt,
		item.LeftAt,
		item.SkippedAt,
		item.NoShowAt,
		item.Position,
		item.EtaMinutes,
		storage.JSONB[map[string]string]{V: &meta},
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.QueueItem, error) {
	var item domain.QueueItem
	err := row.Scan(
		&item.ID,
		&item.AccountID,
		&item.ReservationID,
		&item.ClientID,
		&item.ServiceID,
		&item.TeamMemberID,
		&item.ItemType,
		&item.Source,
		&item.QueueNumber,
		&item.Status,
		&item.Priority,
		&item.EstimatedDurationMinutes,
		&item.CheckedInAt,
		&item.PreCalledAt,
		&item.CalledAt,
		&item.CallExpiresAt,
		&item.StartedAt,
		&item.FinishedAt,
		&item.CancelledAt,
		&item.LeftAt,
		&item.SkippedAt,
		&item.NoShowAt,
		&item.Position,
		&item.EtaMinutes,
		storage.JSONB[map[string]string]{V: &item.Metadata},
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.CheckedInAt = item.CheckedInAt.UTC()
	return &item, nil
}
