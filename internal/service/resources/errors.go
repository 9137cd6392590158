package resources

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных фильтрах ресурсов
	ErrInvalidInput = errors.New("resources: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("resources: internal error")
)
