package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func TestSchedulingPolicy_ApplyFieldByField(t *testing.T) {
	base := DefaultPolicy(1)
	account := PolicySettings{
		AccountID:           1,
		BufferMinutes:       ptr.Ptr(10),
		SlotIntervalMinutes: ptr.Ptr(15),
		DepositRequired:     ptr.Ptr(true),
		DepositAmount:       ptr.Ptr(decimal.RequireFromString("25.50")),
	}
	member := PolicySettings{
		AccountID:         1,
		TeamMemberID:      ptr.Ptr(int64(7)),
		BufferMinutes:     ptr.Ptr(5),
		QueueDispatchMode: ptr.Ptr(DispatchFIFOWithAppointmentPriority),
	}

	got := base.Apply(account).Apply(member)

	assert.Equal(t, 5, got.BufferMinutes)
	assert.Equal(t, 15, got.SlotIntervalMinutes)
	assert.True(t, got.DepositRequired)
	assert.True(t, decimal.RequireFromString("25.5").Equal(got.DepositAmount))
	assert.Equal(t, DispatchFIFOWithAppointmentPriority, got.QueueDispatchMode)
	assert.Equal(t, DefaultMinNoticeMinutes, got.MinNoticeMinutes)
}

func TestSchedulingPolicy_BookingWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	p := DefaultPolicy(1)
	p.MinNoticeMinutes = 30

	earliest, latest := p.BookingWindow(now)
	assert.Equal(t, now.Add(30*time.Minute), earliest)
	assert.True(t, latest.IsZero())

	p.MaxAdvanceDays = 7
	_, latest = p.BookingWindow(now)
	assert.Equal(t, now.AddDate(0, 0, 7), latest)
}

func TestSchedulingPolicy_NegativeBufferIsZero(t *testing.T) {
	p := DefaultPolicy(1)
	p.BufferMinutes = -10

	assert.Equal(t, time.Duration(0), p.Buffer())
}

func TestSchedulingPolicy_QueueLocation(t *testing.T) {
	p := DefaultPolicy(1)
	loc, err := p.QueueLocation()
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	p = p.Apply(PolicySettings{AccountID: 1, QueueTimezone: ptr.Ptr("Europe/Moscow")})
	loc, err = p.QueueLocation()
	assert.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())

	p.QueueTimezone = "Mars/Olympus"
	_, err = p.QueueLocation()
	assert.Error(t, err)
}
