package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var base = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func reservationAt(hour, minutes, buffer int, status domain.ReservationStatus) *domain.Reservation {
	start := base.Add(time.Duration(hour) * time.Hour)
	return &domain.Reservation{
		AccountID:       1,
		TeamMemberID:    7,
		Status:          status,
		Source:          domain.SourceStaff,
		StartsAt:        start,
		EndsAt:          start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		BufferMinutes:   buffer,
	}
}

func TestStore_ReservationsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.CreateReservation(ctx, reservationAt(10, 60, 0, domain.ReservationConfirmed), nil)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	created.SetMeta("x", "y")
	got, err := s.GetReservation(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Metadata)

	_, err = s.GetReservation(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ListReservationsByFootprint(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.CreateReservation(ctx, reservationAt(10, 60, 10, domain.ReservationConfirmed), nil)
	require.NoError(t, err)
	_, err = s.CreateReservation(ctx, reservationAt(14, 60, 0, domain.ReservationCancelled), nil)
	require.NoError(t, err)

	from := base.Add(11*time.Hour + 5*time.Minute)
	to := base.Add(18 * time.Hour)

	got, err := s.ListReservations(ctx, domain.ReservationsFilter{
		TeamMemberID: ptr.Ptr(int64(7)),
		From:         &from,
		To:           &to,
		Statuses:     domain.BlockingStatuses,
	})
	require.NoError(t, err)
	require.Len(t, got, 1, "buffer reaches 11:10 so the 10:00 reservation still overlaps")
	assert.Equal(t, base.Add(10*time.Hour), got[0].StartsAt)
}

func TestStore_ResourceUsageIgnoresNonBlocking(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	room, err := s.CreateResource(ctx, domain.Resource{AccountID: 1, Name: "Room A", Type: "room", Capacity: 1, IsActive: true})
	require.NoError(t, err)

	r1, err := s.CreateReservation(ctx, reservationAt(10, 60, 0, domain.ReservationConfirmed),
		[]domain.Allocation{{ResourceID: room.ID, Quantity: 1}})
	require.NoError(t, err)

	window := domain.Interval{Start: base.Add(10 * time.Hour), End: base.Add(11 * time.Hour)}
	usage, err := s.ListResourceUsage(ctx, []int64{room.ID}, window)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, r1.ID, usage[0].ReservationID)

	r1.Status = domain.ReservationCancelled
	require.NoError(t, s.UpdateReservation(ctx, r1))

	usage, err = s.ListResourceUsage(ctx, []int64{room.ID}, window)
	require.NoError(t, err)
	assert.Empty(t, usage)
}

func TestStore_PolicyUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, err := s.UpsertPolicySettings(ctx, &domain.PolicySettings{AccountID: 1, BufferMinutes: ptr.Ptr(5)})
	require.NoError(t, err)
	second, err := s.UpsertPolicySettings(ctx, &domain.PolicySettings{AccountID: 1, BufferMinutes: ptr.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.GetPolicySettings(ctx, 1, ptr.Ptr(int64(7)))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_QueueNumbersPerDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	n1, _ := s.NextQueueNumber(ctx, 1, base)
	n2, _ := s.NextQueueNumber(ctx, 1, base)
	n3, _ := s.NextQueueNumber(ctx, 1, base.AddDate(0, 0, 1))
	n4, _ := s.NextQueueNumber(ctx, 2, base)

	assert.Equal(t, []int{1, 2, 1, 1}, []int{n1, n2, n3, n4})
}

func TestStore_ReviewIsUniquePerReservation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.CreateReview(ctx, &domain.Review{ReservationID: 5, AccountID: 1, Rating: 5})
	require.NoError(t, err)

	_, err = s.CreateReview(ctx, &domain.Review{ReservationID: 5, AccountID: 1, Rating: 4})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}
