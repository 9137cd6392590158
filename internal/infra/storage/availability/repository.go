package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	tableWeekly     = "weekly_availability"
	tableExceptions = "availability_exceptions"
)

// Repository репозиторий рабочего времени сотрудников
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочего времени
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateWeeklyAvailability добавляет повторяющееся окно недели
func (r *Repository) CreateWeeklyAvailability(ctx context.Context, w domain.WeeklyAvailability) (domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableWeekly).
		Columns("team_member_id", "day_of_week", "start_time", "end_time", "is_active").
		Values(w.TeamMemberID, int(w.DayOfWeek), w.StartTime, w.EndTime, w.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return w, fmt.Errorf("%w: CreateWeeklyAvailability - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID); err != nil {
		return w, fmt.Errorf("%w: CreateWeeklyAvailability - execute insert: %w", ErrExecQuery, err)
	}
	return w, nil
}

// ListWeeklyAvailability получает повторяющиеся окна сотрудника
func (r *Repository) ListWeeklyAvailability(ctx context.Context, teamMemberID int64) ([]domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "team_member_id", "day_of_week", "start_time", "end_time", "is_active").
		From(tableWeekly).
		Where(squirrel.Eq{"team_member_id": teamMemberID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeeklyAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeeklyAvailability - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]domain.WeeklyAvailability, 0)
	for rows.Next() {
		var w domain.WeeklyAvailability
		if err := rows.Scan(&w.ID, &w.TeamMemberID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListWeeklyAvailability - scan row: %w", ErrScanRow, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWeeklyAvailability - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}

// CreateAvailabilityException добавляет исключение на дату
func (r *Repository) CreateAvailabilityException(ctx context.Context, e domain.AvailabilityException) (domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	e.Date = domain.DateOnly(e.Date)

	query, args, err := psqlbuilder.Insert(tableExceptions).
		Columns("account_id", "team_member_id", "date", "start_time", "end_time", "type", "reason").
		Values(e.AccountID, e.TeamMemberID, e.Date.Format(domain.DateFormat), e.StartTime, e.EndTime, e.Type, e.Reason).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return e, fmt.Errorf("%w: CreateAvailabilityException - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return e, fmt.Errorf("%w: CreateAvailabilityException - execute insert: %w", ErrExecQuery, err)
	}
	return e, nil
}

// ListAvailabilityExceptions получает исключения аккаунта и сотрудника с from <= date <= to
func (r *Repository) ListAvailabilityExceptions(ctx context.Context, accountID, teamMemberID int64, from, to time.Time) ([]domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "account_id", "team_member_id", "date", "start_time", "end_time", "type", "reason").
		From(tableExceptions).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Or{
			squirrel.Eq{"team_member_id": nil},
			squirrel.Eq{"team_member_id": teamMemberID},
		}).
		Where(squirrel.GtOrEq{"date": domain.DateOnly(from).Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": domain.DateOnly(to).Format(domain.DateFormat)}).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailabilityExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailabilityExceptions - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]domain.AvailabilityException, 0)
	for rows.Next() {
		var e domain.AvailabilityException
		err := rows.Scan(&e.ID, &e.AccountID, &e.TeamMemberID, &e.Date, &e.StartTime, &e.EndTime, &e.Type, &e.Reason)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAvailabilityExceptions - scan row: %w", ErrScanRow, err)
		}
		e.Date = domain.DateOnly(e.Date)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAvailabilityExceptions - rows error: %w", ErrScanRow, err)
	}

	return out, nil
}
