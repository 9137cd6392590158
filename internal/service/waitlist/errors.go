package waitlist

import "errors"

var (
	ErrInvalidInput = errors.New("waitlist: invalid input")
	ErrInternal     = errors.New("waitlist: internal error")
)
