package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func TestCommit_InitialStatusBySource(t *testing.T) {
	f := newFixture(t)

	staff := f.commit(t, staffAt("09:00", 60))
	client := f.commit(t, clientAt("11:00", 60))

	assert.Equal(t, domain.ReservationConfirmed, staff.Status)
	assert.Equal(t, domain.ReservationPending, client.Status)
	assert.Equal(t, staff.StartsAt.Add(60*time.Minute), staff.EndsAt)
	assert.Equal(t, "UTC", staff.Timezone)
	assert.Contains(t, client.Metadata, domain.MetaNotifiedPrefix+domain.EventReservationCreated)
	assert.Equal(t, []string{domain.EventReservationCreated, domain.EventReservationCreated}, f.notifier.Events())
}

func TestCommit_ServiceDefaultDuration(t *testing.T) {
	f := newFixture(t)

	req := staffAt("09:00", 0)
	req.ServiceID = ptr.Ptr(int64(3))
	r := f.commit(t, req)

	assert.Equal(t, 45, r.DurationMinutes)

	req.ServiceID = ptr.Ptr(int64(99))
	_, err := f.coord.Commit(context.Background(), &req)
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestCommit_BufferedConflict(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{BufferMinutes: ptr.Ptr(10)})

	existing := f.commit(t, staffAt("10:00", 60))
	assert.Equal(t, 10, existing.BufferMinutes)

	for _, start := range []string{"09:00", "09:30", "10:30", "11:00"} {
		_, err := f.coord.Commit(context.Background(), &[]CommitRequest{staffAt(start, 60)}[0])
		assert.ErrorIs(t, err, domain.ErrSlotConflict, start)
	}

	ok := f.commit(t, staffAt("11:20", 60))
	assert.Equal(t, at("11:20"), ok.StartsAt)
}

func TestCommit_DifferentTeamMembersDoNotConflict(t *testing.T) {
	f := newFixture(t)

	f.commit(t, staffAt("10:00", 60))
	other := staffAt("10:00", 60)
	other.TeamMemberID = otherMember

	f.commit(t, other)
}

func TestCommit_ClientPolicyWindow(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{MaxAdvanceDays: ptr.Ptr(2)})

	// Friday 08:00 + 2 days < Monday
	_, err := f.coord.Commit(context.Background(), &[]CommitRequest{clientAt("10:00", 60)}[0])
	assert.ErrorIs(t, err, domain.ErrOutOfPolicyWindow)

	f.clock.Set(at("09:30"))
	_, err = f.coord.Commit(context.Background(), &[]CommitRequest{clientAt("10:00", 60)}[0])
	assert.ErrorIs(t, err, domain.ErrOutOfPolicyWindow, "min notice is 60 minutes")

	// staff may book outside the client window
	f.commit(t, staffAt("10:00", 60))
}

func TestCommit_ClientOutsideOpenHours(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.Commit(context.Background(), &[]CommitRequest{clientAt("16:30", 60)}[0])
	assert.ErrorIs(t, err, domain.ErrOutOfPolicyWindow)

	f.setPolicy(t, domain.PolicySettings{EnforceOpenHours: ptr.Ptr(false)})
	f.commit(t, clientAt("16:30", 60))
}

func TestCommit_UnknownTeamMember(t *testing.T) {
	f := newFixture(t)

	req := staffAt("10:00", 60)
	req.TeamMemberID = 404
	_, err := f.coord.Commit(context.Background(), &req)
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	req.TeamMemberID = teamMemberID
	req.AccountID = 2
	_, err = f.coord.Commit(context.Background(), &req)
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestCommit_InvalidInput(t *testing.T) {
	f := newFixture(t)

	req := staffAt("10:00", 0)
	_, err := f.coord.Commit(context.Background(), &req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = staffAt("10:00", 60)
	req.Source = "robot"
	_, err = f.coord.Commit(context.Background(), &req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommit_RoomCapacityOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room, err := f.store.CreateResource(ctx, domain.Resource{AccountID: accountID, Name: "Room A", Type: "room", Capacity: 1, IsActive: true})
	require.NoError(t, err)

	first := staffAt("10:00", 60)
	first.ResourceFilters = []domain.ResourceFilter{{ResourceID: &room.ID, Quantity: 1}}
	res, err := f.coord.Commit(ctx, &first)
	require.NoError(t, err)
	assert.Equal(t, []domain.Allocation{{ResourceID: room.ID, Quantity: 1}}, res.Allocations)

	second := first
	second.TeamMemberID = otherMember
	second.StartsAt = at("10:30")
	_, err = f.coord.Commit(ctx, &second)
	require.ErrorIs(t, err, domain.ErrResourceUnavailable)

	// no partial effects: nothing was stored for the other team member
	list, err := f.coord.ListByTeamMember(ctx, otherMember, monday, monday.Add(24*time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommit_DepositFailureKeepsReservation(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{
		DepositRequired: ptr.Ptr(true),
		DepositAmount:   ptr.Ptr(decimalFromString(t, "20")),
	})
	f.billing.depositErr = assert.AnError

	res, err := f.coord.Commit(context.Background(), &[]CommitRequest{clientAt("10:00", 60)}[0])

	require.NoError(t, err)
	assert.ErrorIs(t, res.BillingErr, assert.AnError)
	stored, err := f.coord.Get(context.Background(), res.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, stored.Status)
	assert.Len(t, f.billing.deposits, 1)
}

func TestCommit_ConcurrentOverlappingExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.setPolicy(t, domain.PolicySettings{BufferMinutes: ptr.Ptr(5)})

	const n = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := staffAt("10:00", 60)
			req.StartsAt = req.StartsAt.Add(time.Duration(i) * time.Minute)
			_, err := f.coord.Commit(context.Background(), &req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, domain.ErrSlotConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)

	list, err := f.coord.ListByTeamMember(context.Background(), teamMemberID, monday, monday.Add(24*time.Hour), domain.BlockingStatuses)
	require.NoError(t, err)
	assertNoBufferedOverlap(t, list)
}

func TestCommit_ConcurrentSharedResourceRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	chairs, err := f.store.CreateResource(ctx, domain.Resource{AccountID: accountID, Name: "Chairs", Type: "chair", Capacity: 2, IsActive: true})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := staffAt("09:00", 60)
			req.StartsAt = req.StartsAt.Add(time.Duration(i%6) * 30 * time.Minute)
			if i%2 == 1 {
				req.TeamMemberID = otherMember
			}
			req.ResourceFilters = []domain.ResourceFilter{{Type: ptr.Ptr("chair"), Quantity: 1}}
			_, _ = f.coord.Commit(ctx, &req)
		}(i)
	}
	wg.Wait()

	usage, err := f.store.ListResourceUsage(ctx, []int64{chairs.ID}, domain.Interval{Start: monday, End: monday.Add(24 * time.Hour)})
	require.NoError(t, err)
	for minute := 0; minute < 24*60; minute++ {
		instant := monday.Add(time.Duration(minute) * time.Minute)
		held := 0
		for _, u := range usage {
			if u.Footprint.ContainsInstant(instant) {
				held += u.Quantity
			}
		}
		require.LessOrEqual(t, held, chairs.Capacity, "capacity exceeded at %s", instant)
	}
}

func assertNoBufferedOverlap(t *testing.T, list []*domain.Reservation) {
	t.Helper()
	for i := range list {
		for j := i + 1; j < len(list); j++ {
			if list[i].TeamMemberID != list[j].TeamMemberID {
				continue
			}
			assert.False(t, list[i].Footprint().Overlaps(list[j].Footprint()),
				"reservations %d and %d overlap", list[i].ID, list[j].ID)
		}
	}
}
