package billing

import "errors"

var (
	// ErrChargeDeclined возвращается, когда биллинг отклонил списание
	ErrChargeDeclined = errors.New("billing: charge declined")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("billing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("billing client: invalid response")
)
