package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationStatus_TransitionTable(t *testing.T) {
	all := []ReservationStatus{
		ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted, ReservationNoShow,
	}
	allowed := map[[2]ReservationStatus]bool{
		{ReservationPending, ReservationConfirmed}:   true,
		{ReservationPending, ReservationCancelled}:   true,
		{ReservationConfirmed, ReservationCompleted}: true,
		{ReservationConfirmed, ReservationNoShow}:    true,
		{ReservationConfirmed, ReservationCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			err := from.ValidateTransition(to)
			if allowed[[2]ReservationStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			require.Error(t, err, "%s -> %s", from, to)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
		}
	}

	assert.True(t, ReservationCancelled.IsTerminal())
	assert.True(t, ReservationCompleted.IsTerminal())
	assert.True(t, ReservationNoShow.IsTerminal())
	assert.False(t, ReservationPending.IsTerminal())
}

func TestReservationSource_InitialStatus(t *testing.T) {
	policy := DefaultPolicy(1)

	assert.Equal(t, ReservationPending, SourceClient.InitialStatus(policy))
	assert.Equal(t, ReservationConfirmed, SourceStaff.InitialStatus(policy))

	policy.AutoConfirmStaff = false
	assert.Equal(t, ReservationPending, SourceStaff.InitialStatus(policy))
}

func TestReservation_FootprintAndClone(t *testing.T) {
	typ := "room"
	r := &Reservation{
		StartsAt:        at("10:00"),
		EndsAt:          at("11:00"),
		BufferMinutes:   10,
		ResourceFilters: []ResourceFilter{{Type: &typ, Quantity: 1}},
	}
	r.SetMeta("k", "v")

	assert.Equal(t, iv("09:50", "11:10"), r.Footprint())

	c := r.Clone()
	c.Metadata["k"] = "changed"
	*c.ResourceFilters[0].Type = "chair"

	assert.Equal(t, "v", r.Metadata["k"])
	assert.Equal(t, "room", *r.ResourceFilters[0].Type)
}
