package availability

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
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// 2026-03-02 is a Monday
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func utc(day time.Time, hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(day, time.UTC)
}

func openPolicy() domain.SchedulingPolicy {
	p := domain.DefaultPolicy(1)
	p.MinNoticeMinutes = 0
	return p
}

func weeklyWindow(day time.Weekday, from, to string) domain.WeeklyAvailability {
	return domain.WeeklyAvailability{
		TeamMemberID: 7,
		DayOfWeek:    day,
		StartTime:    types.MustTimeString(from),
		EndTime:      types.MustTimeString(to),
		IsActive:     true,
	}
}

func exception(teamMemberID *int64, typ domain.ExceptionType, from, to string) domain.AvailabilityException {
	e := domain.AvailabilityException{AccountID: 1, TeamMemberID: teamMemberID, Date: monday, Type: typ}
	if from != "" {
		e.StartTime = ptr.Ptr(types.MustTimeString(from))
		e.EndTime = ptr.Ptr(types.MustTimeString(to))
	}
	return e
}

func TestCompute_Layers(t *testing.T) {
	weekly := []domain.WeeklyAvailability{
		weeklyWindow(time.Monday, "09:00", "12:00"),
		weeklyWindow(time.Monday, "11:00", "13:00"),
		weeklyWindow(time.Monday, "14:00", "17:00"),
		weeklyWindow(time.Tuesday, "10:00", "11:00"),
	}
	inactive := weeklyWindow(time.Monday, "18:00", "19:00")
	inactive.IsActive = false
	weekly = append(weekly, inactive)

	tests := []struct {
		name       string
		exceptions []domain.AvailabilityException
		want       []domain.Interval
	}{
		{
			name: "recurring only, overlapping windows merged",
			want: []domain.Interval{
				{Start: utc(monday, "09:00"), End: utc(monday, "13:00")},
				{Start: utc(monday, "14:00"), End: utc(monday, "17:00")},
			},
		},
		{
			name:       "closed day",
			exceptions: []domain.AvailabilityException{exception(nil, domain.ExceptionClosed, "", "")},
			want:       []domain.Interval{},
		},
		{
			name:       "custom hours replace the day",
			exceptions: []domain.AvailabilityException{exception(nil, domain.ExceptionCustomHours, "07:00", "08:30")},
			want:       []domain.Interval{{Start: utc(monday, "07:00"), End: utc(monday, "08:30")}},
		},
		{
			name:       "extra hours are unioned",
			exceptions: []domain.AvailabilityException{exception(nil, domain.ExceptionExtraHours, "13:00", "14:00")},
			want:       []domain.Interval{{Start: utc(monday, "09:00"), End: utc(monday, "17:00")}},
		},
		{
			name:       "closed window is cut out",
			exceptions: []domain.AvailabilityException{exception(nil, domain.ExceptionClosed, "10:00", "11:00")},
			want: []domain.Interval{
				{Start: utc(monday, "09:00"), End: utc(monday, "10:00")},
				{Start: utc(monday, "11:00"), End: utc(monday, "13:00")},
				{Start: utc(monday, "14:00"), End: utc(monday, "17:00")},
			},
		},
		{
			name: "team member exception overrides account-wide closure",
			exceptions: []domain.AvailabilityException{
				exception(nil, domain.ExceptionClosed, "", ""),
				exception(ptr.Ptr(int64(7)), domain.ExceptionExtraHours, "17:00", "18:00"),
			},
			want: []domain.Interval{
				{Start: utc(monday, "09:00"), End: utc(monday, "13:00")},
				{Start: utc(monday, "14:00"), End: utc(monday, "18:00")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(monday, monday, time.UTC, weekly, tt.exceptions, openPolicy(), monday)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_ConvertsTimezoneToUTC(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	got := Compute(monday, monday, loc, []domain.WeeklyAvailability{weeklyWindow(time.Monday, "09:00", "17:00")},
		nil, openPolicy(), monday)

	require.Len(t, got, 1)
	assert.Equal(t, utc(monday, "06:00"), got[0].Start)
	assert.Equal(t, utc(monday, "14:00"), got[0].End)
	assert.Equal(t, time.UTC, got[0].Start.Location())
}

func TestCompute_MultipleDaysAndClamp(t *testing.T) {
	weekly := []domain.WeeklyAvailability{
		weeklyWindow(time.Monday, "09:00", "17:00"),
		weeklyWindow(time.Tuesday, "09:00", "17:00"),
		weeklyWindow(time.Wednesday, "09:00", "17:00"),
	}
	policy := openPolicy()
	policy.MaxAdvanceDays = 1

	now := utc(monday, "18:00")
	got := Compute(monday, monday.AddDate(0, 0, 2), time.UTC, weekly, nil, policy, now)

	require.Len(t, got, 1, "monday is over, wednesday is beyond the advance horizon")
	assert.Equal(t, utc(monday.AddDate(0, 0, 1), "09:00"), got[0].Start)
}

func TestCalculator_OpenIntervals(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.CreateWeeklyAvailability(ctx, weeklyWindow(time.Monday, "09:00", "17:00"))
	require.NoError(t, err)
	_, err = store.CreateAvailabilityException(ctx, exception(ptr.Ptr(int64(7)), domain.ExceptionClosed, "12:00", "13:00"))
	require.NoError(t, err)

	calc := NewCalculator(store, logger.Nop())
	got, err := calc.OpenIntervals(ctx, Request{
		TeamMember: domain.TeamMember{ID: 7, AccountID: 1, Timezone: "UTC"},
		From:       monday,
		To:         monday,
		Policy:     openPolicy(),
		Now:        monday,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{
		{Start: utc(monday, "09:00"), End: utc(monday, "12:00")},
		{Start: utc(monday, "13:00"), End: utc(monday, "17:00")},
	}, got)

	_, err = calc.OpenIntervals(ctx, Request{
		TeamMember: domain.TeamMember{ID: 7, AccountID: 1, Timezone: "Mars/Olympus"},
		From:       monday,
		To:         monday,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
