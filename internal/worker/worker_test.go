package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/queue"
	"github.com/m04kA/SMC-SchedulingService/internal/service/waitlist"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeWaitlist struct {
	mu       sync.Mutex
	accounts []int64
	failOn   int64
	swept    []int64
}

func (f *fakeWaitlist) Accounts(ctx context.Context) ([]int64, error) {
	return f.accounts, nil
}

func (f *fakeWaitlist) Sweep(ctx context.Context, accountID int64) (*waitlist.SweepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swept = append(f.swept, accountID)
	if accountID == f.failOn {
		return nil, errors.New("boom")
	}
	return &waitlist.SweepResult{Matched: 1}, nil
}

func (f *fakeWaitlist) Swept() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.swept...)
}

type fakeQueue struct {
	mu     sync.Mutex
	limits []int
}

func (f *fakeQueue) ExpireDue(ctx context.Context, limit int) ([]queue.GraceExpiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	return []queue.GraceExpiry{{
		Item:   &domain.QueueItem{ID: 4},
		NoShow: true,
		Err:    fmt.Errorf("%w: item 4", domain.ErrQueueGraceExpired),
	}}, nil
}

func (f *fakeQueue) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.limits)
}

func TestSweepWaitlist_ContinuesAfterAccountError(t *testing.T) {
	wl := &fakeWaitlist{accounts: []int64{1, 2, 3}, failOn: 2}
	s := NewSweeper(wl, &fakeQueue{}, Config{}, logger.Nop())

	s.SweepWaitlist(context.Background())

	assert.Equal(t, []int64{1, 2, 3}, wl.Swept())
}

func TestExpireQueue_PassesBatch(t *testing.T) {
	q := &fakeQueue{}
	s := NewSweeper(&fakeWaitlist{}, q, Config{QueueBatch: 25}, logger.Nop())

	s.ExpireQueue(context.Background())

	assert.Equal(t, []int{25}, q.limits)
}

func TestStart_RunsUntilCancelled(t *testing.T) {
	wl := &fakeWaitlist{accounts: []int64{1}}
	q := &fakeQueue{}
	s := NewSweeper(wl, q, Config{
		WaitlistInterval: 5 * time.Millisecond,
		QueueInterval:    5 * time.Millisecond,
		QueueBatch:       10,
	}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(wl.Swept()) > 0 && q.Calls() > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStart_DisabledIntervalsReturnOnCancel(t *testing.T) {
	q := &fakeQueue{}
	s := NewSweeper(&fakeWaitlist{}, q, Config{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)

	assert.Zero(t, q.Calls())
}
