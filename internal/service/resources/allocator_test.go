package resources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func window(fromHour, toHour int) domain.Interval {
	return domain.Interval{Start: day.Add(time.Duration(fromHour) * time.Hour), End: day.Add(time.Duration(toHour) * time.Hour)}
}

func book(t *testing.T, store *memory.Store, w domain.Interval, allocs ...domain.Allocation) {
	t.Helper()
	_, err := store.CreateReservation(context.Background(), &domain.Reservation{
		AccountID:    1,
		TeamMemberID: 7,
		Status:       domain.ReservationConfirmed,
		StartsAt:     w.Start,
		EndsAt:       w.End,
	}, allocs)
	require.NoError(t, err)
}

func resource(t *testing.T, store *memory.Store, r domain.Resource) *domain.Resource {
	t.Helper()
	if r.AccountID == 0 {
		r.AccountID = 1
	}
	r.IsActive = true
	created, err := store.CreateResource(context.Background(), r)
	require.NoError(t, err)
	return created
}

func TestAllocator_RoomWithCapacityOne(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	room := resource(t, store, domain.Resource{Name: "Room A", Type: "room", Capacity: 1})
	alloc := NewAllocator(store, logger.Nop())

	req := Request{
		AccountID:    1,
		TeamMemberID: 7,
		Footprint:    window(10, 11),
		Filters:      []domain.ResourceFilter{{ResourceID: &room.ID, Quantity: 1}},
	}

	first, err := alloc.Plan(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []domain.Allocation{{ResourceID: room.ID, Quantity: 1}}, first)
	book(t, store, window(10, 11), first...)

	req.Footprint = domain.Interval{Start: day.Add(10*time.Hour + 30*time.Minute), End: day.Add(11*time.Hour + 30*time.Minute)}
	_, err = alloc.Plan(ctx, req)
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)

	req.Footprint = window(11, 12)
	_, err = alloc.Plan(ctx, req)
	assert.NoError(t, err, "touching windows do not share an instant")
}

func TestAllocator_TypeFilterFallsBackToAnotherResource(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	chairA := resource(t, store, domain.Resource{Name: "Chair A", Type: "chair", Capacity: 1})
	chairB := resource(t, store, domain.Resource{Name: "Chair B", Type: "chair", Capacity: 1})
	book(t, store, window(10, 11), domain.Allocation{ResourceID: chairA.ID, Quantity: 1})

	alloc := NewAllocator(store, logger.Nop())
	got, err := alloc.Plan(ctx, Request{
		AccountID:    1,
		TeamMemberID: 7,
		Footprint:    window(10, 11),
		Filters:      []domain.ResourceFilter{{Type: ptr.Ptr("chair"), Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Allocation{{ResourceID: chairB.ID, Quantity: 1}}, got)
}

func TestAllocator_BacktracksAcrossFilters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	big := resource(t, store, domain.Resource{Name: "Big", Type: "room", Capacity: 2})
	small := resource(t, store, domain.Resource{Name: "Small", Type: "room", Capacity: 1})

	alloc := NewAllocator(store, logger.Nop())
	got, err := alloc.Plan(ctx, Request{
		AccountID:    1,
		TeamMemberID: 7,
		Footprint:    window(10, 11),
		Filters: []domain.ResourceFilter{
			{Type: ptr.Ptr("room"), Quantity: 1},
			{Type: ptr.Ptr("room"), Quantity: 2},
		},
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Allocation{
		{ResourceID: big.ID, Quantity: 2},
		{ResourceID: small.ID, Quantity: 1},
	}, got)
}

func TestAllocator_ScopeAndUnknownIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	other := resource(t, store, domain.Resource{Name: "Other staff", Type: "chair", Capacity: 1, TeamMemberID: ptr.Ptr(int64(8))})
	alloc := NewAllocator(store, logger.Nop())

	_, err := alloc.Plan(ctx, Request{
		AccountID:    1,
		TeamMemberID: 7,
		Footprint:    window(10, 11),
		Filters:      []domain.ResourceFilter{{ResourceID: &other.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)

	_, err = alloc.Plan(ctx, Request{
		AccountID:    1,
		TeamMemberID: 7,
		Footprint:    window(10, 11),
		Filters:      []domain.ResourceFilter{{ResourceID: ptr.Ptr(int64(999)), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	_, err = alloc.Plan(ctx, Request{
		AccountID: 1,
		Filters:   []domain.ResourceFilter{{Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPeakUsage(t *testing.T) {
	usage := []domain.ResourceUsage{
		{ResourceID: 1, Footprint: window(9, 11), Quantity: 1},
		{ResourceID: 1, Footprint: window(11, 13), Quantity: 1},
		{ResourceID: 1, Footprint: window(10, 12), Quantity: 2},
		{ResourceID: 2, Footprint: window(8, 9), Quantity: 5},
	}

	peaks := PeakUsage(usage, window(9, 13))

	assert.Equal(t, 3, peaks[1])
	assert.Equal(t, 0, peaks[2])
}
