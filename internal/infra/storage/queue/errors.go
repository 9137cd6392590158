package queue

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

var (
	// ErrItemNotFound возвращается, когда элемент очереди не найден
	ErrItemNotFound = fmt.Errorf("queue.repository: %w", storage.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("queue.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("queue.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("queue.repository: failed to scan row")
)
