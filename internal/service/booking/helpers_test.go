package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/directory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	accountID    = int64(1)
	teamMemberID = int64(7)
	otherMember  = int64(8)
)

// 2026-03-02 is a Monday
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(monday, time.UTC)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(ctx context.Context, event string, recipient domain.Recipient, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

type fakeBilling struct {
	mu         sync.Mutex
	depositErr error
	feeErr     error
	deposits   []decimal.Decimal
	fees       []decimal.Decimal
}

func (b *fakeBilling) ChargeDeposit(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deposits = append(b.deposits, amount)
	return b.depositErr
}

func (b *fakeBilling) ChargeNoShowFee(ctx context.Context, r *domain.Reservation, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fees = append(b.fees, amount)
	return b.feeErr
}

type recordingListener struct {
	mu    sync.Mutex
	freed []domain.FreedSlot
}

func (l *recordingListener) OnReservationFreed(ctx context.Context, freed domain.FreedSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.freed = append(l.freed, freed)
}

type fixture struct {
	store    *memory.Store
	clock    *clock.Manual
	policies *policy.Service
	notifier *recordingNotifier
	billing  *fakeBilling
	listener *recordingListener
	coord    *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	clk := clock.NewManual(time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)) // Friday
	store := memory.NewStore().WithClock(clk.Now)
	dir := directory.NewStatic().
		AddTeamMember(domain.TeamMember{ID: teamMemberID, AccountID: accountID, Timezone: "UTC"}).
		AddTeamMember(domain.TeamMember{ID: otherMember, AccountID: accountID, Timezone: "UTC"}).
		AddService(domain.Service{ID: 3, AccountID: accountID, DurationMinutes: 45})

	for _, id := range []int64{teamMemberID, otherMember} {
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
	f := &fixture{
		store:    store,
		clock:    clk,
		policies: policies,
		notifier: &recordingNotifier{},
		billing:  &fakeBilling{},
		listener: &recordingListener{},
	}
	f.coord = NewCoordinator(Dependencies{
		Repo:      store,
		Policies:  policies,
		Directory: dir,
		OpenHours: availability.NewCalculator(store, log),
		Allocator: resources.NewAllocator(store, log),
		TxManager: txmanager.Passthrough{},
		Notifier:  f.notifier,
		Billing:   f.billing,
		Metrics:   metrics.NewWithRegistry(prometheus.NewRegistry(), "test"),
		Clock:     clk,
		Logger:    log,
	})
	f.coord.SetFreedSlotListener(f.listener)
	return f
}

func (f *fixture) setPolicy(t *testing.T, s domain.PolicySettings) {
	t.Helper()
	s.AccountID = accountID
	_, err := f.policies.Upsert(context.Background(), &s)
	require.NoError(t, err)
}

func (f *fixture) commit(t *testing.T, req CommitRequest) *domain.Reservation {
	t.Helper()
	res, err := f.coord.Commit(context.Background(), &req)
	require.NoError(t, err)
	return res.Reservation
}

func staffAt(hhmm string, minutes int) CommitRequest {
	return CommitRequest{
		AccountID:       accountID,
		TeamMemberID:    teamMemberID,
		Source:          domain.SourceStaff,
		StartsAt:        at(hhmm),
		DurationMinutes: minutes,
	}
}

func clientAt(hhmm string, minutes int) CommitRequest {
	req := staffAt(hhmm, minutes)
	req.Source = domain.SourceClient
	req.ClientID = &[]int64{100}[0]
	return req
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
