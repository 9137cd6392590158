package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tableReviews = "reservation_reviews"

// uniqueViolation код ошибки PostgreSQL 23505
const uniqueViolation = "23505"

// Repository репозиторий отзывов о бронированиях
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateReview сохраняет отзыв; на одно бронирование допускается один отзыв
func (r *Repository) CreateReview(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableReviews).
		Columns("reservation_id", "account_id", "rating", "feedback").
		Values(rv.ReservationID, rv.AccountID, rv.Rating, rv.Feedback).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateReview - build insert query: %v", ErrBuildQuery, err)
	}

	stored := *rv
	err = executor.QueryRowContext(ctx, query, args...).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: reservation id=%d", ErrDuplicateReview, rv.ReservationID)
		}
		return nil, fmt.Errorf("%w: CreateReview - execute insert: %w", ErrExecQuery, err)
	}

	return &stored, nil
}

// GetReviewByReservation получает отзыв по бронированию
func (r *Repository) GetReviewByReservation(ctx context.Context, reservationID int64) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "reservation_id", "account_id", "rating", "feedback", "created_at").
		From(tableReviews).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetReviewByReservation - build select query: %v", ErrBuildQuery, err)
	}

	var rv domain.Review
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rv.ID,
		&rv.ReservationID,
		&rv.AccountID,
		&rv.Rating,
		&rv.Feedback,
		&rv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation id=%d", ErrReviewNotFound, reservationID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReviewByReservation - scan review: %w", ErrScanRow, err)
	}

	return &rv, nil
}
