package reviews

import "errors"

var (
	ErrInvalidInput    = errors.New("reviews: invalid input")
	ErrAlreadyReviewed = errors.New("reviews: reservation already reviewed")
	ErrInternal        = errors.New("reviews: internal error")
)
