package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
	"github.com/m04kA/SMC-SchedulingService/internal/service/booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
)

// Dependencies зависимости матчера
type Dependencies struct {
	Repo        WaitlistRepository
	Booker      Booker
	Slots       SlotFinder
	Policies    PolicyResolver
	Notifier    Notifier
	Metrics     Metrics
	Clock       TimeProvider
	Logger      Logger
	Locks       *keylock.KeyLock
	HorizonDays int
}

// Matcher сопоставляет записи листа ожидания с освободившимися интервалами.
// Попытка подбора - обычный Commit, поэтому проигранная гонка оставляет запись в pending.
type Matcher struct {
	repo     WaitlistRepository
	booker   Booker
	slots    SlotFinder
	policies PolicyResolver
	notifier Notifier
	metrics  Metrics
	clock    TimeProvider
	logger   Logger
	locks    *keylock.KeyLock
	horizon  time.Duration
}

// NewMatcher создает новый матчер листа ожидания
func NewMatcher(deps Dependencies) *Matcher {
	locks := deps.Locks
	if locks == nil {
		locks = keylock.New()
	}
	horizonDays := deps.HorizonDays
	if horizonDays <= 0 {
		horizonDays = domain.DefaultWaitlistHorizonDays
	}
	return &Matcher{
		repo:     deps.Repo,
		booker:   deps.Booker,
		slots:    deps.Slots,
		policies: deps.Policies,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		clock:    deps.Clock,
		logger:   deps.Logger,
		locks:    locks,
		horizon:  time.Duration(horizonDays) * 24 * time.Hour,
	}
}

// Join ставит клиента в лист ожидания
func (m *Matcher) Join(ctx context.Context, req *JoinRequest) (*domain.WaitlistEntry, error) {
	now := m.clock.Now()
	if err := validateJoinRequest(req, now); err != nil {
		m.logger.Warn("Join: validation failed: %v", err)
		return nil, err
	}

	policy, err := m.policies.Resolve(ctx, req.AccountID, req.TeamMemberID)
	if err != nil {
		m.logger.Error("Join: failed to resolve policy for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: resolve policy: %v", ErrInternal, err)
	}
	if !policy.WaitlistEnabled {
		return nil, fmt.Errorf("%w: waitlist is disabled for account=%d", domain.ErrOutOfPolicyWindow, req.AccountID)
	}

	partySize := req.PartySize
	if partySize == 0 {
		partySize = 1
	}

	entry, err := m.repo.CreateWaitlistEntry(ctx, &domain.WaitlistEntry{
		AccountID:        req.AccountID,
		ClientID:         req.ClientID,
		ServiceID:        req.ServiceID,
		TeamMemberID:     req.TeamMemberID,
		Status:           domain.WaitlistPending,
		RequestedStartAt: req.RequestedStartAt.UTC(),
		RequestedEndAt:   req.RequestedEndAt.UTC(),
		DurationMinutes:  req.DurationMinutes,
		PartySize:        partySize,
		ResourceFilters:  req.ResourceFilters,
	})
	if err != nil {
		m.logger.Error("Join: failed to create entry for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: create entry: %v", ErrInternal, err)
	}

	m.logger.Info("Join: created waitlist entry id=%d for account=%d", entry.ID, entry.AccountID)
	return entry, nil
}

// Get возвращает запись листа ожидания по ID
func (m *Matcher) Get(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	entry, err := m.repo.GetWaitlistEntry(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: waitlist entry id=%d", domain.ErrUnknownEntity, id)
		}
		m.logger.Error("Get: repository error for waitlist entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get entry: %v", ErrInternal, err)
	}
	return entry, nil
}

// List возвращает записи аккаунта, старые первыми
func (m *Matcher) List(ctx context.Context, accountID int64, statuses []domain.WaitlistStatus) ([]*domain.WaitlistEntry, error) {
	list, err := m.repo.ListWaitlist(ctx, accountID, statuses)
	if err != nil {
		m.logger.Error("List: repository error for account=%d: %v", accountID, err)
		return nil, fmt.Errorf("%w: list entries: %v", ErrInternal, err)
	}
	return list, nil
}

// Cancel отменяет запись листа ожидания
func (m *Matcher) Cancel(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	return m.transition(ctx, id, domain.WaitlistCancelled, nil)
}

// Resolve закрывает подобранную запись, когда ее бронирование подтверждено или завершено
func (m *Matcher) Resolve(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	return m.transition(ctx, id, domain.WaitlistResolved, func(entry *domain.WaitlistEntry) error {
		if entry.MatchedReservationID == nil {
			return fmt.Errorf("%w: waitlist entry id=%d has no matched reservation", domain.ErrInvalidTransition, entry.ID)
		}
		r, err := m.booker.Get(ctx, *entry.MatchedReservationID)
		if err != nil {
			return err
		}
		if r.Status != domain.ReservationConfirmed && r.Status != domain.ReservationCompleted {
			return fmt.Errorf("%w: matched reservation id=%d is %s", domain.ErrInvalidTransition, r.ID, r.Status)
		}
		return nil
	})
}

func (m *Matcher) transition(ctx context.Context, id int64, next domain.WaitlistStatus, check func(*domain.WaitlistEntry) error) (*domain.WaitlistEntry, error) {
	entry, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(accountKey(entry.AccountID))
	defer unlock()

	// Перечитываем под блокировкой
	entry, err = m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Status.ValidateTransition(next); err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(entry); err != nil {
			return nil, err
		}
	}

	entry.Status = next
	if err := m.repo.UpdateWaitlistEntry(ctx, entry); err != nil {
		m.logger.Error("transition: failed to store waitlist entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: update entry: %v", ErrInternal, err)
	}
	m.logger.Info("transition: waitlist entry id=%d -> %s", id, next)
	return entry, nil
}

// OnReservationFreed пытается отдать освободившийся интервал первой подходящей записи.
// Записи перебираются в порядке постановки; подбор завершается после первого успешного Commit.
func (m *Matcher) OnReservationFreed(ctx context.Context, freed domain.FreedSlot) {
	m.logger.Info("OnReservationFreed: account=%d, team_member=%d, reservation id=%d",
		freed.AccountID, freed.TeamMemberID, freed.ReservationID)

	policy, err := m.policies.Resolve(ctx, freed.AccountID, &freed.TeamMemberID)
	if err != nil {
		m.logger.Error("OnReservationFreed: failed to resolve policy: %v", err)
		return
	}
	if !policy.WaitlistEnabled {
		return
	}

	unlock := m.locks.Lock(accountKey(freed.AccountID))
	defer unlock()

	entries, err := m.repo.ListWaitlist(ctx, freed.AccountID, []domain.WaitlistStatus{domain.WaitlistPending})
	if err != nil {
		m.logger.Error("OnReservationFreed: failed to list waitlist for account=%d: %v", freed.AccountID, err)
		return
	}

	now := m.clock.Now()
	for _, entry := range entries {
		if m.stale(entry, now) {
			if err := m.release(ctx, entry); err != nil {
				m.logger.Error("OnReservationFreed: failed to release waitlist entry id=%d: %v", entry.ID, err)
			}
			continue
		}
		startsAt, ok := candidateStart(entry, freed, now)
		if !ok {
			continue
		}
		if m.tryMatch(ctx, entry, freed.TeamMemberID, startsAt) {
			return
		}
	}
}

// Sweep освобождает устаревшие записи и повторяет подбор для записей с предпочтительным сотрудником
func (m *Matcher) Sweep(ctx context.Context, accountID int64) (*SweepResult, error) {
	unlock := m.locks.Lock(accountKey(accountID))
	defer unlock()

	entries, err := m.repo.ListWaitlist(ctx, accountID, []domain.WaitlistStatus{domain.WaitlistPending})
	if err != nil {
		m.logger.Error("Sweep: failed to list waitlist for account=%d: %v", accountID, err)
		return nil, fmt.Errorf("%w: list entries: %v", ErrInternal, err)
	}

	now := m.clock.Now()
	result := &SweepResult{}
	for _, entry := range entries {
		// 1. Окно прошло или запись старше горизонта
		if m.stale(entry, now) {
			if err := m.release(ctx, entry); err != nil {
				return result, err
			}
			result.Released++
			continue
		}

		// 2. Без предпочтения по сотруднику запись ждет события освобождения
		if entry.TeamMemberID == nil {
			continue
		}

		policy, err := m.policies.Resolve(ctx, accountID, entry.TeamMemberID)
		if err != nil {
			m.logger.Warn("Sweep: failed to resolve policy for waitlist entry id=%d: %v", entry.ID, err)
			continue
		}
		if !policy.WaitlistEnabled {
			continue
		}

		window := entry.Window()
		if window.Start.Before(now) {
			window.Start = now
		}
		slot, err := m.slots.FirstSlot(ctx, accountID, *entry.TeamMemberID, window, entry.DurationMinutes)
		if err != nil {
			m.logger.Warn("Sweep: slot search failed for waitlist entry id=%d: %v", entry.ID, err)
			m.metrics.WaitlistMatchAttempt(outcomeError)
			continue
		}
		if slot == nil {
			continue
		}
		if m.tryMatch(ctx, entry, *entry.TeamMemberID, slot.StartsAt) {
			result.Matched++
		}
	}

	m.logger.Info("Sweep: account=%d matched=%d released=%d", accountID, result.Matched, result.Released)
	return result, nil
}

// stale окно записи прошло или запись старше горизонта
func (m *Matcher) stale(entry *domain.WaitlistEntry, now time.Time) bool {
	return !entry.RequestedEndAt.After(now) || now.Sub(entry.CreatedAt) > m.horizon
}

// Accounts возвращает аккаунты, у которых есть ожидающие записи
func (m *Matcher) Accounts(ctx context.Context) ([]int64, error) {
	ids, err := m.repo.ListAccountsWithPendingWaitlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", ErrInternal, err)
	}
	return ids, nil
}

// tryMatch вызывается под блокировкой аккаунта
func (m *Matcher) tryMatch(ctx context.Context, entry *domain.WaitlistEntry, teamMemberID int64, startsAt time.Time) bool {
	res, err := m.booker.Commit(ctx, &booking.CommitRequest{
		AccountID:       entry.AccountID,
		TeamMemberID:    teamMemberID,
		ClientID:        entry.ClientID,
		ServiceID:       entry.ServiceID,
		Source:          domain.SourceClient,
		StartsAt:        startsAt,
		DurationMinutes: entry.DurationMinutes,
		ResourceFilters: entry.ResourceFilters,
		Metadata:        map[string]string{domain.MetaWaitlistEntryID: strconv.FormatInt(entry.ID, 10)},
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotConflict), errors.Is(err, domain.ErrResourceUnavailable):
			m.metrics.WaitlistMatchAttempt(outcomeConflict)
			m.logger.Info("tryMatch: waitlist entry id=%d stays pending: %v", entry.ID, err)
		case errors.Is(err, domain.ErrOutOfPolicyWindow), errors.Is(err, domain.ErrUnknownEntity):
			m.metrics.WaitlistMatchAttempt(outcomeRejected)
			m.logger.Info("tryMatch: waitlist entry id=%d rejected by policy: %v", entry.ID, err)
		default:
			m.metrics.WaitlistMatchAttempt(outcomeError)
			m.logger.Error("tryMatch: commit for waitlist entry id=%d failed: %v", entry.ID, err)
		}
		return false
	}

	r := res.Reservation
	entry.Status = domain.WaitlistMatched
	entry.MatchedReservationID = &r.ID
	if err := m.repo.UpdateWaitlistEntry(ctx, entry); err != nil {
		// Бронирование уже создано и несет waitlist_entry_id в metadata
		m.metrics.WaitlistMatchAttempt(outcomeError)
		m.logger.Error("tryMatch: failed to store match of waitlist entry id=%d -> reservation id=%d: %v", entry.ID, r.ID, err)
		return true
	}

	m.metrics.WaitlistMatchAttempt(outcomeMatched)
	m.logger.Info("tryMatch: waitlist entry id=%d matched reservation id=%d", entry.ID, r.ID)

	m.notifier.Notify(ctx, domain.EventWaitlistMatched, domain.Recipient{
		AccountID:    entry.AccountID,
		ClientID:     entry.ClientID,
		TeamMemberID: &r.TeamMemberID,
	}, map[string]interface{}{
		"waitlist_entry_id": entry.ID,
		"reservation_id":    r.ID,
		"starts_at":         r.StartsAt.Format(time.RFC3339),
		"ends_at":           r.EndsAt.Format(time.RFC3339),
	})
	return true
}

func (m *Matcher) release(ctx context.Context, entry *domain.WaitlistEntry) error {
	entry.Status = domain.WaitlistReleased
	if err := m.repo.UpdateWaitlistEntry(ctx, entry); err != nil {
		m.logger.Error("release: failed to store waitlist entry id=%d: %v", entry.ID, err)
		return fmt.Errorf("%w: release entry: %v", ErrInternal, err)
	}
	m.metrics.WaitlistMatchAttempt(outcomeReleased)
	m.logger.Info("release: waitlist entry id=%d released", entry.ID)
	return nil
}

// candidateStart старт кандидата: позже из начала освобожденного интервала и начала окна записи.
// Кандидат должен начинаться внутри освобожденного интервала и укладываться в окно записи.
func candidateStart(entry *domain.WaitlistEntry, freed domain.FreedSlot, now time.Time) (time.Time, bool) {
	if !entry.AcceptsTeamMember(freed.TeamMemberID) || !entry.AcceptsService(freed.ServiceID) {
		return time.Time{}, false
	}

	start := freed.Interval.Start
	if entry.RequestedStartAt.After(start) {
		start = entry.RequestedStartAt
	}
	if start.Before(now) {
		return time.Time{}, false
	}
	if !start.Before(freed.Interval.End) {
		return time.Time{}, false
	}
	if start.Add(entry.Duration()).After(entry.RequestedEndAt) {
		return time.Time{}, false
	}
	return start, true
}

func accountKey(accountID int64) string {
	return "wl:" + strconv.FormatInt(accountID, 10)
}
