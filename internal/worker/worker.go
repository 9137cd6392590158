package worker

import (
	"context"
	"sync"
	"time"
)

// Sweeper периодически запускает проходы листа ожидания и очереди.
// Нулевой интервал отключает соответствующий проход.
type Sweeper struct {
	waitlist WaitlistSweeper
	queue    QueueExpirer
	logger   Logger

	waitlistInterval time.Duration
	queueInterval    time.Duration
	queueBatch       int
}

// Config параметры периодических проходов
type Config struct {
	WaitlistInterval time.Duration
	QueueInterval    time.Duration
	QueueBatch       int
}

// NewSweeper создает планировщик фоновых проходов
func NewSweeper(waitlist WaitlistSweeper, queue QueueExpirer, cfg Config, logger Logger) *Sweeper {
	return &Sweeper{
		waitlist:         waitlist,
		queue:            queue,
		logger:           logger,
		waitlistInterval: cfg.WaitlistInterval,
		queueInterval:    cfg.QueueInterval,
		queueBatch:       cfg.QueueBatch,
	}
}

// Start запускает циклы и блокируется до отмены ctx
func (s *Sweeper) Start(ctx context.Context) {
	var wg sync.WaitGroup

	if s.waitlistInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop(ctx, s.waitlistInterval, s.SweepWaitlist)
		}()
	}
	if s.queueInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop(ctx, s.queueInterval, s.ExpireQueue)
		}()
	}

	s.logger.Info("Sweeper: started, waitlist_interval=%s, queue_interval=%s", s.waitlistInterval, s.queueInterval)
	wg.Wait()
	s.logger.Info("Sweeper: stopped")
}

func loop(ctx context.Context, interval time.Duration, run func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run(ctx)
		}
	}
}

// SweepWaitlist один проход подбора по всем аккаунтам с ожидающими записями.
// Ошибка одного аккаунта не прерывает проход по остальным.
func (s *Sweeper) SweepWaitlist(ctx context.Context) {
	accounts, err := s.waitlist.Accounts(ctx)
	if err != nil {
		s.logger.Error("SweepWaitlist: failed to list accounts: %v", err)
		return
	}

	var matched, released int
	for _, accountID := range accounts {
		if ctx.Err() != nil {
			return
		}
		result, err := s.waitlist.Sweep(ctx, accountID)
		if err != nil {
			s.logger.Warn("SweepWaitlist: account=%d failed: %v", accountID, err)
			continue
		}
		matched += result.Matched
		released += result.Released
	}

	if matched > 0 || released > 0 {
		s.logger.Info("SweepWaitlist: accounts=%d, matched=%d, released=%d", len(accounts), matched, released)
	}
}

// ExpireQueue один проход по вызовам с истекшим grace-периодом
func (s *Sweeper) ExpireQueue(ctx context.Context) {
	expired, err := s.queue.ExpireDue(ctx, s.queueBatch)
	if err != nil {
		s.logger.Error("ExpireQueue: %v", err)
		return
	}

	for _, e := range expired {
		s.logger.Info("ExpireQueue: item=%d no_show=%t: %v", e.Item.ID, e.NoShow, e.Err)
	}
}
