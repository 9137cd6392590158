package main

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	policyRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/policy"
	queueRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/queue"
	reservationRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/resource"
	reviewRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/review"
	waitlistRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy"
	"github.com/m04kA/SMC-SchedulingService/internal/service/queue"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/internal/service/reviews"
	"github.com/m04kA/SMC-SchedulingService/internal/service/waitlist"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

// repositories хранилища всех сервисов движка
type repositories struct {
	reservations booking.ReservationRepository
	policies     policy.PolicyRepository
	availability availability.AvailabilityRepository
	resources    resources.ResourceRepository
	waitlist     waitlist.WaitlistRepository
	queue        queue.QueueRepository
	reviews      reviews.ReviewRepository
}

func newPostgresRepositories(db dbmetrics.DBExecutor) *repositories {
	reservations := reservationRepo.NewRepository(db)
	return &repositories{
		reservations: reservations,
		policies:     policyRepo.NewRepository(db),
		availability: availabilityRepo.NewRepository(db),
		resources: resourceStore{
			resources: resourceRepo.NewRepository(db),
			usage:     reservations,
		},
		waitlist: waitlistRepo.NewRepository(db),
		queue:    queueRepo.NewRepository(db),
		reviews:  reviewRepo.NewRepository(db),
	}
}

func newMemoryRepositories() *repositories {
	store := memory.NewStore()
	return &repositories{
		reservations: store,
		policies:     store,
		availability: store,
		resources:    store,
		waitlist:     store,
		queue:        store,
		reviews:      store,
	}
}

// resourceStore ресурсы лежат в своей таблице, а занятость считается по allocations бронирований
type resourceStore struct {
	resources *resourceRepo.Repository
	usage     *reservationRepo.Repository
}

func (s resourceStore) ListResources(ctx context.Context, accountID int64) ([]*domain.Resource, error) {
	return s.resources.ListResources(ctx, accountID)
}

func (s resourceStore) ListResourceUsage(ctx context.Context, resourceIDs []int64, window domain.Interval) ([]domain.ResourceUsage, error) {
	return s.usage.ListResourceUsage(ctx, resourceIDs, window)
}
