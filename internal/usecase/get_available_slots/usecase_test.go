package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/directory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	accountID    = int64(1)
	teamMemberID = int64(7)
	berlinMember = int64(9)
)

// 2026-03-02 is a Monday
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(monday, time.UTC)
}

type fixture struct {
	store    *memory.Store
	policies *policy.Service
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	clk := clock.NewManual(time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC))
	store := memory.NewStore().WithClock(clk.Now)
	dir := directory.NewStatic().
		AddTeamMember(domain.TeamMember{ID: teamMemberID, AccountID: accountID, Timezone: "UTC"}).
		AddTeamMember(domain.TeamMember{ID: berlinMember, AccountID: accountID, Timezone: "Europe/Berlin"}).
		AddService(domain.Service{ID: 3, AccountID: accountID, DurationMinutes: 45})

	for _, id := range []int64{teamMemberID, berlinMember} {
		_, err := store.CreateWeeklyAvailability(ctx, domain.WeeklyAvailability{
			TeamMemberID: id,
			DayOfWeek:    time.Monday,
			StartTime:    types.MustTimeString("09:00"),
			EndTime:      types.MustTimeString("17:00"),
			IsActive:     true,
		})
		require.NoError(t, err)
	}

	log := logger.Nop()
	policies := policy.NewService(store, log)
	_, err := policies.Upsert(ctx, &domain.PolicySettings{
		AccountID:           accountID,
		BufferMinutes:       ptr.Ptr(10),
		SlotIntervalMinutes: ptr.Ptr(30),
	})
	require.NoError(t, err)

	return &fixture{
		store:    store,
		policies: policies,
		uc:       NewUseCase(store, policies, availability.NewCalculator(store, log), dir, clk, log),
	}
}

func (f *fixture) reserve(t *testing.T, tm int64, from, to string) {
	t.Helper()
	_, err := f.store.CreateReservation(context.Background(), &domain.Reservation{
		AccountID:       accountID,
		TeamMemberID:    tm,
		Status:          domain.ReservationConfirmed,
		Source:          domain.SourceStaff,
		Timezone:        "UTC",
		StartsAt:        at(from),
		EndsAt:          at(to),
		DurationMinutes: int(at(to).Sub(at(from)).Minutes()),
		BufferMinutes:   10,
	}, nil)
	require.NoError(t, err)
}

func localStarts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.LocalStart
	}
	return out
}

func TestExecute_ExcludesBufferedReservation(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, teamMemberID, "10:00", "11:00")

	resp, err := f.uc.Execute(context.Background(), &Request{
		AccountID:       accountID,
		TeamMemberID:    teamMemberID,
		From:            monday,
		To:              monday,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t,
		[]string{"11:30", "12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30"},
		localStarts(resp.Slots))
	for _, s := range resp.Slots {
		assert.Equal(t, "2026-03-02", s.LocalDate)
		assert.Equal(t, 60, s.DurationMinutes)
	}
}

func TestExecute_ServiceDurationAndLimit(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AccountID:    accountID,
		TeamMemberID: teamMemberID,
		ServiceID:    ptr.Ptr(int64(3)),
		From:         monday,
		To:           monday,
		Limit:        2,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, resp.DurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, at("09:30"), resp.Slots[0].StartsAt)
	assert.Equal(t, at("10:15"), resp.Slots[0].EndsAt)
}

func TestExecute_TimezoneIsAppliedToLocalDates(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AccountID:       accountID,
		TeamMemberID:    berlinMember,
		From:            monday,
		To:              monday,
		DurationMinutes: 60,
		Limit:           1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	// Berlin is UTC+1 in March before the DST switch
	assert.Equal(t, "09:30", resp.Slots[0].LocalStart)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC), resp.Slots[0].StartsAt)
}

func TestExecute_EmptyDay(t *testing.T) {
	f := newFixture(t)
	tuesday := monday.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AccountID:       accountID,
		TeamMemberID:    teamMemberID,
		From:            tuesday,
		To:              tuesday,
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "nil request",
			req:     nil,
			wantErr: ErrInvalidInput,
		},
		{
			name:    "to before from",
			req:     &Request{AccountID: accountID, TeamMemberID: teamMemberID, From: monday, To: monday.AddDate(0, 0, -1), DurationMinutes: 30},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no duration and no service",
			req:     &Request{AccountID: accountID, TeamMemberID: teamMemberID, From: monday, To: monday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown team member",
			req:     &Request{AccountID: accountID, TeamMemberID: 404, From: monday, To: monday, DurationMinutes: 30},
			wantErr: domain.ErrUnknownEntity,
		},
		{
			name:    "team member from another account",
			req:     &Request{AccountID: 2, TeamMemberID: teamMemberID, From: monday, To: monday, DurationMinutes: 30},
			wantErr: domain.ErrUnknownEntity,
		},
		{
			name:    "unknown service",
			req:     &Request{AccountID: accountID, TeamMemberID: teamMemberID, ServiceID: ptr.Ptr(int64(404)), From: monday, To: monday},
			wantErr: domain.ErrUnknownEntity,
		},
		{
			name:    "range too wide",
			req:     &Request{AccountID: accountID, TeamMemberID: teamMemberID, From: monday, To: monday.AddDate(1, 0, 0), DurationMinutes: 30},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFirstSlot_StaysInsideWindow(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, teamMemberID, "13:00", "14:00")

	window := domain.Interval{Start: at("12:10"), End: at("16:00")}
	slot, err := f.uc.FirstSlot(context.Background(), accountID, teamMemberID, window, 60)
	require.NoError(t, err)
	require.NotNil(t, slot)

	// сетка 30 минут от 09:00, буфер 10 минут вокруг 13:00-14:00
	assert.Equal(t, at("14:30"), slot.StartsAt)
	assert.Equal(t, at("15:30"), slot.EndsAt)
	assert.True(t, window.Contains(slot.Interval()))
}

func TestFirstSlot_KeepsPolicyGridForOffsetWindow(t *testing.T) {
	f := newFixture(t)

	window := domain.Interval{Start: at("10:07"), End: at("12:00")}
	slot, err := f.uc.FirstSlot(context.Background(), accountID, teamMemberID, window, 60)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at("10:30"), slot.StartsAt)

	// буфер перед слотом может лежать вне окна, но внутри рабочих часов
	slot, err = f.uc.FirstSlot(context.Background(), accountID, teamMemberID,
		domain.Interval{Start: at("10:00"), End: at("11:00")}, 60)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at("10:00"), slot.StartsAt)
}

func TestFirstSlot_NoRoom(t *testing.T) {
	f := newFixture(t)
	f.reserve(t, teamMemberID, "10:00", "11:00")

	slot, err := f.uc.FirstSlot(context.Background(), accountID, teamMemberID,
		domain.Interval{Start: at("09:30"), End: at("11:30")}, 60)
	require.NoError(t, err)
	assert.Nil(t, slot)

	_, err = f.uc.FirstSlot(context.Background(), accountID, teamMemberID, domain.Interval{}, 60)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
