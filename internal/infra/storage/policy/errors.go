package policy

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

var (
	// ErrPolicyNotFound возвращается, когда настройки политики не найдены
	ErrPolicyNotFound = fmt.Errorf("policy.repository: %w", storage.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("policy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("policy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("policy.repository: failed to scan row")
)
