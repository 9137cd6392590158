package submit_review

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reviews"
)

type ReviewService interface {
	Submit(ctx context.Context, req *reviews.SubmitRequest) (*domain.Review, error)
	GetByReservation(ctx context.Context, reservationID int64) (*domain.Review, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
