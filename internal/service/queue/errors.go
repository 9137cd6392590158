package queue

import "errors"

var (
	ErrInvalidInput = errors.New("queue: invalid input")
	ErrInternal     = errors.New("queue: internal error")
)
