package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/directory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// Dependencies зависимости координатора
type Dependencies struct {
	Repo      ReservationRepository
	Policies  PolicyResolver
	Directory Directory
	OpenHours OpenHoursCalculator
	Allocator ResourceAllocator
	TxManager TxManager
	Locks     *keylock.KeyLock
	Notifier  Notifier
	Billing   Billing
	Metrics   Metrics
	Clock     TimeProvider
	Logger    Logger
}

// Coordinator валидирует и атомарно фиксирует бронирования, владеет их машиной состояний
type Coordinator struct {
	repo      ReservationRepository
	policies  PolicyResolver
	directory Directory
	openHours OpenHoursCalculator
	allocator ResourceAllocator
	txManager TxManager
	locks     *keylock.KeyLock
	notifier  Notifier
	billing   Billing
	metrics   Metrics
	clock     TimeProvider
	logger    Logger

	listener FreedSlotListener
}

// NewCoordinator создает новый координатор бронирований
func NewCoordinator(deps Dependencies) *Coordinator {
	locks := deps.Locks
	if locks == nil {
		locks = keylock.New()
	}
	return &Coordinator{
		repo:      deps.Repo,
		policies:  deps.Policies,
		directory: deps.Directory,
		openHours: deps.OpenHours,
		allocator: deps.Allocator,
		txManager: deps.TxManager,
		locks:     locks,
		notifier:  deps.Notifier,
		billing:   deps.Billing,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
}

// SetFreedSlotListener подключает получателя освобожденных интервалов.
// Вызывается один раз при сборке приложения, до обработки запросов.
func (c *Coordinator) SetFreedSlotListener(l FreedSlotListener) {
	c.listener = l
}

// commitPlan подготовленное к записи бронирование
type commitPlan struct {
	reservation *domain.Reservation
	policy      domain.SchedulingPolicy
	resourceReq resources.Request
	lockKeys    []string
}

// Commit создает бронирование, если его буферизованный интервал не пересекается
// с ожидающими и подтвержденными бронированиями сотрудника.
// Повторная проверка и запись выполняются атомарно под блокировкой сотрудника и ресурсов.
func (c *Coordinator) Commit(ctx context.Context, req *CommitRequest) (*CommitResult, error) {
	if err := validateCommitRequest(req); err != nil {
		c.logger.Warn("Commit: validation failed: %v", err)
		return nil, err
	}
	c.logger.Info("Commit: account=%d, team_member=%d, starts_at=%s, source=%s",
		req.AccountID, req.TeamMemberID, req.StartsAt.UTC().Format(time.RFC3339), req.Source)

	// 1. Собираем бронирование и проверяем окно политики
	plan, err := c.prepare(ctx, req)
	if err != nil {
		c.reject(err)
		return nil, err
	}

	// 2. Атомарная перепроверка и запись
	created, allocs, err := c.write(ctx, plan, nil, nil)
	if err != nil {
		c.reject(err)
		return nil, err
	}

	c.metrics.ReservationCommitted(string(created.Source))
	c.logger.Info("Commit: created reservation id=%d, status=%s, allocations=%d", created.ID, created.Status, len(allocs))

	// 3. Побочные эффекты после фиксации
	result := &CommitResult{Reservation: created, Allocations: allocs}
	result.BillingErr = c.chargeDeposit(ctx, created, plan.policy)
	result.Reservation = c.notify(ctx, created, domain.EventReservationCreated)

	return result, nil
}

func (c *Coordinator) prepare(ctx context.Context, req *CommitRequest) (*commitPlan, error) {
	now := c.clock.Now()

	tm, err := c.teamMember(ctx, req.AccountID, req.TeamMemberID)
	if err != nil {
		return nil, err
	}

	duration, err := c.duration(ctx, req)
	if err != nil {
		return nil, err
	}

	policy, err := c.policies.Resolve(ctx, req.AccountID, &tm.ID)
	if err != nil {
		c.logger.Error("Commit: failed to resolve policy for team_member=%d: %v", tm.ID, err)
		return nil, fmt.Errorf("%w: resolve policy: %v", ErrInternal, err)
	}

	startsAt := req.StartsAt.UTC()
	r := &domain.Reservation{
		AccountID:       req.AccountID,
		TeamMemberID:    tm.ID,
		ClientID:        req.ClientID,
		ServiceID:       req.ServiceID,
		Status:          req.Source.InitialStatus(policy),
		Source:          req.Source,
		Timezone:        tm.Timezone,
		StartsAt:        startsAt,
		EndsAt:          startsAt.Add(time.Duration(duration) * time.Minute),
		DurationMinutes: duration,
		BufferMinutes:   max(policy.BufferMinutes, 0),
		Notes:           req.Notes,
		ResourceFilters: req.ResourceFilters,
	}
	for k, v := range req.Metadata {
		r.SetMeta(k, v)
	}

	// Ограничения окна политики обязательны для клиентских бронирований;
	// персонал может бронировать вне окна
	if req.Source == domain.SourceClient {
		if err := checkBookingWindow(policy, now, startsAt); err != nil {
			return nil, err
		}
		if policy.EnforceOpenHours {
			if err := c.checkOpenHours(ctx, tm, policy, r, now); err != nil {
				return nil, err
			}
		}
	}

	resourceReq := resources.Request{
		AccountID:    r.AccountID,
		TeamMemberID: r.TeamMemberID,
		Footprint:    r.Footprint(),
		Filters:      r.ResourceFilters,
	}
	candidates, err := c.allocator.Candidates(ctx, resourceReq)
	if err != nil {
		return nil, c.allocatorError(err)
	}

	return &commitPlan{
		reservation: r,
		policy:      policy,
		resourceReq: resourceReq,
		lockKeys:    lockKeys(tm.ID, candidates),
	}, nil
}

// write выполняет перепроверку конфликтов, распределение ресурсов и вставку как одну атомарную единицу.
// Если replace задан, исходное бронирование освобождается в той же единице.
func (c *Coordinator) write(ctx context.Context, plan *commitPlan, replace *domain.Reservation, reason *string) (*domain.Reservation, []domain.Allocation, error) {
	unlock := c.locks.Lock(plan.lockKeys...)
	defer unlock()

	var (
		created *domain.Reservation
		allocs  []domain.Allocation
	)
	err := c.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		created, allocs = nil, nil

		var exclude *int64
		var original *domain.Reservation
		if replace != nil {
			current, err := c.repo.GetReservation(ctx, replace.ID)
			if err != nil {
				return fmt.Errorf("%w: reload reservation id=%d: %w", ErrInternal, replace.ID, err)
			}
			if !current.IsBlocking() {
				return fmt.Errorf("%w: reservation id=%d is %s", domain.ErrInvalidTransition, current.ID, current.Status)
			}
			original = current
			exclude = &current.ID
		}

		// 1. Перепроверка пересечений под блокировкой
		if err := c.checkConflicts(ctx, plan.reservation, exclude); err != nil {
			return err
		}

		// 2. Распределение ресурсов в той же единице
		if len(plan.resourceReq.Filters) > 0 {
			req := plan.resourceReq
			req.ExcludeReservationID = exclude
			planned, err := c.allocator.Plan(ctx, req)
			if err != nil {
				return c.allocatorError(err)
			}
			allocs = planned
		}

		// 3. Запись
		if original == nil {
			stored, err := c.repo.CreateReservation(ctx, plan.reservation, allocs)
			if err != nil {
				return fmt.Errorf("%w: create reservation: %w", ErrInternal, err)
			}
			created = stored
			return nil
		}

		now := c.clock.Now()
		original.Status = domain.ReservationCancelled
		original.CancelledAt = &now
		original.CancellationReason = reason
		stored, err := c.repo.RescheduleReservation(ctx, original, plan.reservation, allocs)
		if err != nil {
			return fmt.Errorf("%w: reschedule reservation: %w", ErrInternal, err)
		}
		created = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			return nil, nil, fmt.Errorf("%w: concurrent commit for team_member=%d: %v",
				domain.ErrSlotConflict, plan.reservation.TeamMemberID, err)
		}
		return nil, nil, err
	}
	return created, allocs, nil
}

func (c *Coordinator) checkConflicts(ctx context.Context, r *domain.Reservation, exclude *int64) error {
	footprint := r.Footprint()
	existing, err := c.repo.ListReservations(ctx, domain.ReservationsFilter{
		TeamMemberID: &r.TeamMemberID,
		From:         &footprint.Start,
		To:           &footprint.End,
		Statuses:     domain.BlockingStatuses,
	})
	if err != nil {
		return fmt.Errorf("%w: list reservations: %w", ErrInternal, err)
	}

	for _, other := range existing {
		if exclude != nil && other.ID == *exclude {
			continue
		}
		if other.IsBlocking() && other.Footprint().Overlaps(footprint) {
			return fmt.Errorf("%w: team_member=%d overlaps reservation id=%d", domain.ErrSlotConflict, r.TeamMemberID, other.ID)
		}
	}
	return nil
}

func (c *Coordinator) checkOpenHours(ctx context.Context, tm *domain.TeamMember, policy domain.SchedulingPolicy, r *domain.Reservation, now time.Time) error {
	loc, err := time.LoadLocation(tm.Timezone)
	if err != nil {
		return fmt.Errorf("%w: team member timezone %q: %v", ErrInvalidInput, tm.Timezone, err)
	}
	footprint := r.Footprint()

	open, err := c.openHours.OpenIntervals(ctx, availability.Request{
		TeamMember: *tm,
		From:       footprint.Start.In(loc).AddDate(0, 0, -1),
		To:         footprint.End.In(loc),
		Policy:     policy,
		Now:        now,
	})
	if err != nil {
		c.logger.Error("Commit: failed to compute open hours for team_member=%d: %v", tm.ID, err)
		return fmt.Errorf("%w: open hours: %v", ErrInternal, err)
	}

	if !slots.InsideOpen(open, footprint) {
		return fmt.Errorf("%w: %s..%s is outside open hours", domain.ErrOutOfPolicyWindow,
			footprint.Start.Format(time.RFC3339), footprint.End.Format(time.RFC3339))
	}
	return nil
}

func (c *Coordinator) teamMember(ctx context.Context, accountID, teamMemberID int64) (*domain.TeamMember, error) {
	tm, err := c.directory.TeamMember(ctx, teamMemberID)
	if err != nil {
		if errors.Is(err, directory.ErrTeamMemberNotFound) {
			return nil, fmt.Errorf("%w: team member id=%d", domain.ErrUnknownEntity, teamMemberID)
		}
		c.logger.Error("Commit: directory error for team_member=%d: %v", teamMemberID, err)
		return nil, fmt.Errorf("%w: directory: %v", ErrInternal, err)
	}
	if tm.AccountID != accountID {
		return nil, fmt.Errorf("%w: team member id=%d in account=%d", domain.ErrUnknownEntity, teamMemberID, accountID)
	}
	return tm, nil
}

func (c *Coordinator) duration(ctx context.Context, req *CommitRequest) (int, error) {
	if req.DurationMinutes > 0 {
		return req.DurationMinutes, nil
	}

	svc, err := c.directory.Service(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, directory.ErrServiceNotFound) {
			return 0, fmt.Errorf("%w: service id=%d", domain.ErrUnknownEntity, *req.ServiceID)
		}
		c.logger.Error("Commit: directory error for service=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: directory: %v", ErrInternal, err)
	}
	if svc.DurationMinutes <= 0 {
		return 0, fmt.Errorf("%w: service id=%d has no default duration", ErrInvalidInput, svc.ID)
	}
	return svc.DurationMinutes, nil
}

func (c *Coordinator) allocatorError(err error) error {
	switch {
	case errors.Is(err, domain.ErrResourceUnavailable), errors.Is(err, domain.ErrUnknownEntity):
		return err
	case errors.Is(err, resources.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: allocator: %w", ErrInternal, err)
	}
}

func (c *Coordinator) reject(err error) {
	reason := "internal"
	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		reason = "slot_conflict"
	case errors.Is(err, domain.ErrResourceUnavailable):
		reason = "resource_unavailable"
	case errors.Is(err, domain.ErrOutOfPolicyWindow):
		reason = "out_of_policy_window"
	case errors.Is(err, domain.ErrUnknownEntity):
		reason = "unknown_entity"
	case errors.Is(err, domain.ErrInvalidTransition):
		reason = "invalid_transition"
	case errors.Is(err, ErrInvalidInput):
		reason = "invalid_input"
	}
	c.metrics.CommitRejected(reason)
	c.logger.Warn("Commit: rejected (%s): %v", reason, err)
}

func checkBookingWindow(policy domain.SchedulingPolicy, now, startsAt time.Time) error {
	earliest, latest := policy.BookingWindow(now)
	if startsAt.Before(earliest) {
		return fmt.Errorf("%w: starts_at %s is earlier than min notice %s", domain.ErrOutOfPolicyWindow,
			startsAt.Format(time.RFC3339), earliest.Format(time.RFC3339))
	}
	if !latest.IsZero() && startsAt.After(latest) {
		return fmt.Errorf("%w: starts_at %s is beyond max advance %s", domain.ErrOutOfPolicyWindow,
			startsAt.Format(time.RFC3339), latest.Format(time.RFC3339))
	}
	return nil
}

func lockKeys(teamMemberID int64, candidates []*domain.Resource) []string {
	keys := make([]string, 0, len(candidates)+1)
	keys = append(keys, teamMemberKey(teamMemberID))
	for _, r := range candidates {
		keys = append(keys, "res:"+strconv.FormatInt(r.ID, 10))
	}
	return keys
}

func teamMemberKey(id int64) string {
	return "tm:" + strconv.FormatInt(id, 10)
}
