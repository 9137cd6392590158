package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tableResources = "resources"

var resourceColumns = []string{"id", "account_id", "team_member_id", "name", "type", "capacity", "is_active", "created_at"}

// Repository репозиторий ресурсов (кабинеты, кресла, оборудование)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateResource создает ресурс
func (r *Repository) CreateResource(ctx context.Context, res domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableResources).
		Columns("account_id", "team_member_id", "name", "type", "capacity", "is_active").
		Values(res.AccountID, res.TeamMemberID, res.Name, res.Type, res.Capacity, res.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateResource - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateResource - execute insert: %w", ErrExecQuery, err)
	}
	return &res, nil
}

// GetResource получает ресурс по ID
func (r *Repository) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From(tableResources).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - scan resource: %w", ErrScanRow, err)
	}
	return res, nil
}

// ListResources получает все ресурсы аккаунта, включая неактивные
func (r *Repository) ListResources(ctx context.Context, accountID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From(tableResources).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListResources - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	out := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListResources - scan row: %w", ErrScanRow, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListResources - rows error: %w", ErrScanRow, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	err := row.Scan(&res.ID, &res.AccountID, &res.TeamMemberID, &res.Name, &res.Type, &res.Capacity, &res.IsActive, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
