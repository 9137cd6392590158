package review

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

var (
	// ErrReviewNotFound возвращается, когда отзыв не найден
	ErrReviewNotFound = fmt.Errorf("review.repository: %w", storage.ErrNotFound)

	// ErrDuplicateReview возвращается при повторном отзыве на бронирование
	ErrDuplicateReview = fmt.Errorf("review.repository: %w", storage.ErrAlreadyExists)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("review.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("review.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("review.repository: failed to scan row")
)
