package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func TestTransition_FutureReservationCannotComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := f.commit(t, staffAt("10:00", 60))

	for _, status := range []domain.ReservationStatus{domain.ReservationCompleted, domain.ReservationNoShow} {
		_, err := f.coord.Transition(ctx, &TransitionRequest{ReservationID: r.ID, Status: status, Actor: domain.SourceStaff})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, status)
	}

	stored, err := f.coord.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, stored.Status)

	f.clock.Set(at("10:05"))
	res, err := f.coord.Transition(ctx, &TransitionRequest{ReservationID: r.ID, Status: domain.ReservationCompleted, Actor: domain.SourceStaff})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCompleted, res.Reservation.Status)
	assert.Contains(t, f.notifier.Events(), domain.EventReservationCompleted)
}

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ReservationStatus
		to      domain.ReservationStatus
		wantErr bool
	}{
		{name: "pending to confirmed", from: domain.ReservationPending, to: domain.ReservationConfirmed},
		{name: "pending to cancelled", from: domain.ReservationPending, to: domain.ReservationCancelled},
		{name: "pending to completed", from: domain.ReservationPending, to: domain.ReservationCompleted, wantErr: true},
		{name: "pending to no_show", from: domain.ReservationPending, to: domain.ReservationNoShow, wantErr: true},
		{name: "confirmed to completed", from: domain.ReservationConfirmed, to: domain.ReservationCompleted},
		{name: "confirmed to no_show", from: domain.ReservationConfirmed, to: domain.ReservationNoShow},
		{name: "confirmed to cancelled", from: domain.ReservationConfirmed, to: domain.ReservationCancelled},
		{name: "confirmed to pending", from: domain.ReservationConfirmed, to: domain.ReservationPending, wantErr: true},
		{name: "cancelled to confirmed", from: domain.ReservationCancelled, to: domain.ReservationConfirmed, wantErr: true},
		{name: "completed to cancelled", from: domain.ReservationCompleted, to: domain.ReservationCancelled, wantErr: true},
		{name: "no_show to completed", from: domain.ReservationNoShow, to: domain.ReservationCompleted, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			created, err := f.store.CreateReservation(ctx, &domain.Reservation{
				AccountID:       accountID,
				TeamMemberID:    teamMemberID,
				Status:          tt.from,
				Source:          domain.SourceStaff,
				Timezone:        "UTC",
				StartsAt:        at("10:00"),
				EndsAt:          at("11:00"),
				DurationMinutes: 60,
			}, nil)
			require.NoError(t, err)
			f.clock.Set(at("10:30"))

			_, err = f.coord.Transition(ctx, &TransitionRequest{ReservationID: created.ID, Status: tt.to, Actor: domain.SourceStaff})

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			stored, err := f.coord.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.to, stored.Status)
		})
	}
}

func TestTransition_OnlyStaffConfirms(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := f.commit(t, clientAt("10:00", 60))

	_, err := f.coord.Transition(ctx, &TransitionRequest{ReservationID: r.ID, Status: domain.ReservationConfirmed, Actor: domain.SourceClient})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	res, err := f.coord.Transition(ctx, &TransitionRequest{ReservationID: r.ID, Status: domain.ReservationConfirmed, Actor: domain.SourceStaff})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, res.Reservation.Status)
	assert.Contains(t, res.Reservation.Metadata, domain.MetaNotifiedPrefix+domain.EventReservationConfirmed)
}

func TestTransition_UnknownReservation(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.Cancel(context.Background(), 404, domain.SourceStaff, nil)

	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestCancel_FreesSlotAndNotifiesListener(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := f.commit(t, staffAt("10:00", 60))

	res, err := f.coord.Cancel(ctx, r.ID, domain.SourceClient, ptr.Ptr("changed plans"))
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationCancelled, res.Reservation.Status)
	assert.False(t, res.LateCancellation)
	require.NotNil(t, res.Reservation.CancelledAt)
	assert.Equal(t, "changed plans", *res.Reservation.CancellationReason)
	require.Len(t, f.listener.freed, 1)
	assert.Equal(t, r.ID, f.listener.freed[0].ReservationID)
	assert.Equal(t, r.Interval(), f.listener.freed[0].Interval)

	// слот снова свободен
	f.commit(t, staffAt("10:00", 60))
}

func TestCancel_InsideCutoff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{
		NoShowFeeEnabled: ptr.Ptr(true),
		NoShowFeeAmount:  ptr.Ptr(decimalFromString(t, "15")),
	})
	r := f.commit(t, staffAt("10:00", 60))
	f.clock.Set(at("10:00").Add(-2 * time.Hour))

	_, err := f.coord.Cancel(ctx, r.ID, domain.SourceClient, nil)
	require.ErrorIs(t, err, domain.ErrOutOfPolicyWindow)

	res, err := f.coord.Cancel(ctx, r.ID, domain.SourceStaff, nil)
	require.NoError(t, err)
	assert.True(t, res.LateCancellation)
	assert.True(t, res.NoShowFeeBillable)
	assert.Equal(t, "true", res.Reservation.Metadata[domain.MetaLateCancellation])
	assert.Equal(t, "true", res.Reservation.Metadata[domain.MetaNoShowFeeBillable])
	assert.Empty(t, f.billing.fees, "late cancellation is flagged, not charged")
}

func TestCancel_PendingIgnoresCutoff(t *testing.T) {
	f := newFixture(t)
	r := f.commit(t, clientAt("10:00", 60))
	f.clock.Set(at("09:00"))

	res, err := f.coord.Cancel(context.Background(), r.ID, domain.SourceClient, nil)

	require.NoError(t, err)
	assert.False(t, res.LateCancellation)
}

func TestCancel_ClientCancelDisabled(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{AllowClientCancel: ptr.Ptr(false)})
	r := f.commit(t, staffAt("10:00", 60))

	_, err := f.coord.Cancel(context.Background(), r.ID, domain.SourceClient, nil)

	assert.ErrorIs(t, err, domain.ErrOutOfPolicyWindow)
}

func TestNoShow_ChargesFeeAndKeepsStatusOnBillingFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{
		NoShowFeeEnabled: ptr.Ptr(true),
		NoShowFeeAmount:  ptr.Ptr(decimalFromString(t, "15")),
	})
	f.billing.feeErr = assert.AnError
	r := f.commit(t, staffAt("10:00", 60))
	f.clock.Set(at("10:20"))

	res, err := f.coord.Transition(ctx, &TransitionRequest{ReservationID: r.ID, Status: domain.ReservationNoShow, Actor: domain.SourceStaff})

	require.NoError(t, err)
	assert.ErrorIs(t, res.BillingErr, assert.AnError)
	assert.Equal(t, domain.ReservationNoShow, res.Reservation.Status)
	require.Len(t, f.billing.fees, 1)
	assert.True(t, decimalFromString(t, "15").Equal(f.billing.fees[0]))
}

func TestReschedule_ReplacesOriginal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room, err := f.store.CreateResource(ctx, domain.Resource{AccountID: accountID, Name: "Room A", Type: "room", Capacity: 1, IsActive: true})
	require.NoError(t, err)

	req := staffAt("10:00", 60)
	req.ResourceFilters = []domain.ResourceFilter{{ResourceID: &room.ID, Quantity: 1}}
	original := f.commit(t, req)

	// новый интервал пересекается с исходным: исходное исключается из проверки
	res, err := f.coord.Reschedule(ctx, &RescheduleRequest{
		ReservationID: original.ID,
		StartsAt:      at("10:30"),
		Actor:         domain.SourceStaff,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationCancelled, res.Original.Status)
	assert.Equal(t, rescheduledReason, *res.Original.CancellationReason)
	require.NotNil(t, res.Reservation.RescheduledFromID)
	assert.Equal(t, original.ID, *res.Reservation.RescheduledFromID)
	assert.Equal(t, at("10:30"), res.Reservation.StartsAt)
	assert.Equal(t, 60, res.Reservation.DurationMinutes)
	assert.Len(t, res.Allocations, 1)

	allocs, err := f.store.ListAllocations(ctx, original.ID)
	require.NoError(t, err)
	assert.Empty(t, allocs)

	assert.Contains(t, f.notifier.Events(), domain.EventReservationRescheduled)
	require.Len(t, f.listener.freed, 1)
	assert.Equal(t, original.ID, f.listener.freed[0].ReservationID)
}

func TestReschedule_ConflictLeavesOriginalIntact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	original := f.commit(t, staffAt("10:00", 60))
	f.commit(t, staffAt("12:00", 60))

	_, err := f.coord.Reschedule(ctx, &RescheduleRequest{
		ReservationID: original.ID,
		StartsAt:      at("11:30"),
		Actor:         domain.SourceStaff,
	})
	require.ErrorIs(t, err, domain.ErrSlotConflict)

	stored, err := f.coord.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, stored.Status)
	assert.Empty(t, f.listener.freed)
}

func TestReschedule_TerminalReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := f.commit(t, staffAt("10:00", 60))
	_, err := f.coord.Cancel(ctx, r.ID, domain.SourceStaff, nil)
	require.NoError(t, err)

	_, err = f.coord.Reschedule(ctx, &RescheduleRequest{ReservationID: r.ID, StartsAt: at("12:00"), Actor: domain.SourceStaff})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestListByClient(t *testing.T) {
	f := newFixture(t)
	f.commit(t, clientAt("10:00", 60))
	f.commit(t, clientAt("12:00", 60))
	f.commit(t, staffAt("14:00", 60))

	list, err := f.coord.ListByClient(context.Background(), accountID, 100)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartsAt.Before(list[1].StartsAt))
}
