package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/directory"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
)

// Dependencies зависимости диспетчера
type Dependencies struct {
	Repo         QueueRepository
	Reservations Reservations
	Directory    Directory
	Policies     PolicyResolver
	TxManager    TxManager
	Notifier     Notifier
	Metrics      Metrics
	Clock        TimeProvider
	Logger       Logger
	Locks        *keylock.KeyLock
}

// Dispatcher управляет живой очередью: чек-ин, вызовы, позиции и ETA.
// Переходы сериализуются по эффективной очереди (сотрудник или аккаунт целиком).
type Dispatcher struct {
	repo         QueueRepository
	reservations Reservations
	directory    Directory
	policies     PolicyResolver
	txManager    TxManager
	notifier     Notifier
	metrics      Metrics
	clock        TimeProvider
	logger       Logger
	locks        *keylock.KeyLock
}

// NewDispatcher создает новый диспетчер очереди
func NewDispatcher(deps Dependencies) *Dispatcher {
	locks := deps.Locks
	if locks == nil {
		locks = keylock.New()
	}
	return &Dispatcher{
		repo:         deps.Repo,
		reservations: deps.Reservations,
		directory:    deps.Directory,
		policies:     deps.Policies,
		txManager:    deps.TxManager,
		notifier:     deps.Notifier,
		metrics:      deps.Metrics,
		clock:        deps.Clock,
		logger:       deps.Logger,
		locks:        locks,
	}
}

// CheckIn ставит клиента в очередь.
// Чек-ин по бронированию раньше окна check_in_early отклоняется; после буферизованного
// конца бронирования клиент ставится как новый walk-in.
func (d *Dispatcher) CheckIn(ctx context.Context, req *CheckInRequest) (*CheckInResult, error) {
	if err := validateCheckInRequest(req); err != nil {
		d.logger.Warn("CheckIn: validation failed: %v", err)
		return nil, err
	}
	d.logger.Info("CheckIn: account=%d, source=%s", req.AccountID, req.Source)

	now := d.clock.Now()
	item := &domain.QueueItem{
		AccountID:                req.AccountID,
		ClientID:                 req.ClientID,
		ServiceID:                req.ServiceID,
		TeamMemberID:             req.TeamMemberID,
		ItemType:                 domain.QueueItemWalkIn,
		Source:                   req.Source,
		Status:                   domain.QueueCheckedIn,
		Priority:                 req.Priority,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		CheckedInAt:              now,
	}
	result := &CheckInResult{}

	// 1. Привязка к бронированию
	if req.ReservationID != nil {
		late, err := d.linkReservation(ctx, item, *req.ReservationID, now)
		if err != nil {
			return nil, err
		}
		result.LateForReservation = late
	}

	policy, err := d.policy(ctx, item.AccountID, item.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if !policy.QueueModeEnabled {
		return nil, fmt.Errorf("%w: queue mode is disabled for account=%d", domain.ErrOutOfPolicyWindow, item.AccountID)
	}

	// 2. Оценка длительности
	if item.EstimatedDurationMinutes == 0 {
		item.EstimatedDurationMinutes = d.estimate(ctx, item.ServiceID)
	}

	if item.TeamMemberID != nil {
		if err := d.ensureTeamMember(ctx, *item.TeamMemberID); err != nil {
			return nil, err
		}
	}
	day, err := d.localDay(ctx, item.AccountID, now)
	if err != nil {
		return nil, err
	}

	// 3. Запись и пересчет позиций под блокировкой очереди
	unlock := d.locks.Lock(item.ScopeKey(policy.QueueAssignmentMode))
	defer unlock()

	var preCalled []*domain.QueueItem
	err = d.txManager.Do(ctx, func(ctx context.Context) error {
		if item.ReservationID != nil {
			if err := d.ensureNotQueued(ctx, item.AccountID, *item.ReservationID); err != nil {
				return err
			}
		}

		number, err := d.repo.NextQueueNumber(ctx, item.AccountID, day)
		if err != nil {
			return fmt.Errorf("%w: next queue number: %w", ErrInternal, err)
		}
		item.QueueNumber = number

		created, err := d.repo.CreateQueueItem(ctx, item)
		if err != nil {
			return fmt.Errorf("%w: create queue item: %w", ErrInternal, err)
		}

		result.CheckIn = domain.CheckIn{
			ID:            uuid.NewString(),
			AccountID:     created.AccountID,
			QueueItemID:   created.ID,
			ReservationID: created.ReservationID,
			Channel:       channelFor(created.Source),
			CreatedAt:     now,
		}
		if err := d.repo.AppendCheckIn(ctx, result.CheckIn); err != nil {
			return fmt.Errorf("%w: append check-in: %w", ErrInternal, err)
		}

		item, preCalled, err = d.recomputeScope(ctx, created, policy, now)
		return err
	})
	if err != nil {
		d.logger.Error("CheckIn: failed for account=%d: %v", req.AccountID, err)
		return nil, err
	}

	d.metrics.QueueTransitioned(string(domain.QueueCheckedIn))
	d.announce(ctx, preCalled)
	d.logger.Info("CheckIn: queue item id=%d number=%d position=%d eta=%dm",
		item.ID, item.QueueNumber, item.Position, item.EtaMinutes)

	result.Item = item
	return result, nil
}

// CallNext вызывает первый ожидающий элемент очереди сотрудника (или всего аккаунта в режиме global_pull)
func (d *Dispatcher) CallNext(ctx context.Context, accountID int64, teamMemberID *int64) (*domain.QueueItem, error) {
	policy, err := d.policy(ctx, accountID, teamMemberID)
	if err != nil {
		return nil, err
	}

	waiting, err := d.repo.ListQueueItems(ctx, scopeFilter(accountID, teamMemberID, policy.QueueAssignmentMode,
		[]domain.QueueItemStatus{domain.QueueCheckedIn, domain.QueuePreCalled, domain.QueueSkipped}))
	if err != nil {
		return nil, fmt.Errorf("%w: list queue: %v", ErrInternal, err)
	}
	if len(waiting) == 0 {
		return nil, fmt.Errorf("%w: no waiting items for account=%d", domain.ErrUnknownEntity, accountID)
	}

	order(waiting, policy, d.clock.Now())
	return d.Call(ctx, waiting[0].ID, teamMemberID)
}

// Call вызывает элемент: статус called и дедлайн grace-периода
func (d *Dispatcher) Call(ctx context.Context, itemID int64, teamMemberID *int64) (*domain.QueueItem, error) {
	return d.transition(ctx, itemID, domain.QueueCalled, func(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) error {
		if item.TeamMemberID == nil && teamMemberID != nil && policy.QueueAssignmentMode == domain.AssignmentGlobalPull {
			item.TeamMemberID = teamMemberID
		}
		deadline := now.Add(policy.QueueGrace())
		item.CallExpiresAt = &deadline

		return d.repo.AppendCheckIn(ctx, domain.CheckIn{
			ID:            uuid.NewString(),
			AccountID:     item.AccountID,
			QueueItemID:   item.ID,
			ReservationID: item.ReservationID,
			Channel:       domain.CheckInCall,
			GraceDeadline: &deadline,
			CreatedAt:     now,
		})
	})
}

// Start отмечает начало обслуживания
func (d *Dispatcher) Start(ctx context.Context, itemID int64) (*domain.QueueItem, error) {
	return d.transition(ctx, itemID, domain.QueueStarted, func(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) error {
		item.CallExpiresAt = nil
		return nil
	})
}

// Finish завершает обслуживание
func (d *Dispatcher) Finish(ctx context.Context, itemID int64) (*domain.QueueItem, error) {
	return d.transition(ctx, itemID, domain.QueueFinished, nil)
}

// Skip возвращает вызванный элемент в конец очереди
func (d *Dispatcher) Skip(ctx context.Context, itemID int64) (*domain.QueueItem, error) {
	return d.transition(ctx, itemID, domain.QueueSkipped, requeue)
}

// Cancel снимает элемент с очереди по действию персонала или клиента
func (d *Dispatcher) Cancel(ctx context.Context, itemID int64) (*domain.QueueItem, error) {
	return d.transition(ctx, itemID, domain.QueueCancelled, clearCall)
}

// Leave клиент покинул очередь
func (d *Dispatcher) Leave(ctx context.Context, itemID int64) (*domain.QueueItem, error) {
	return d.transition(ctx, itemID, domain.QueueLeft, clearCall)
}

// ExpireDue обрабатывает вызванные элементы с истекшим grace-периодом.
// При queue_no_show_on_grace_expiry элемент становится no_show, иначе возвращается в конец очереди.
func (d *Dispatcher) ExpireDue(ctx context.Context, limit int) ([]GraceExpiry, error) {
	now := d.clock.Now()
	due, err := d.repo.ListExpiredCalls(ctx, now, limit)
	if err != nil {
		d.logger.Error("ExpireDue: failed to list expired calls: %v", err)
		return nil, fmt.Errorf("%w: list expired calls: %v", ErrInternal, err)
	}

	out := make([]GraceExpiry, 0, len(due))
	for _, candidate := range due {
		policy, err := d.policy(ctx, candidate.AccountID, candidate.TeamMemberID)
		if err != nil {
			return out, err
		}

		next, mutate := domain.QueueSkipped, requeue
		if policy.QueueNoShowOnGraceExpiry {
			next, mutate = domain.QueueNoShow, clearCall
		}

		item, err := d.transition(ctx, candidate.ID, next, func(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) error {
			// Элемент мог быть начат или отменен, пока мы его не заблокировали
			if !item.GraceElapsed(now) {
				return errGraceNotElapsed
			}
			item.SetMeta(domain.MetaGraceExpired, now.Format(time.RFC3339))
			return mutate(ctx, item, policy, now)
		})
		if errors.Is(err, errGraceNotElapsed) {
			continue
		}
		if err != nil {
			d.logger.Warn("ExpireDue: queue item id=%d: %v", candidate.ID, err)
			continue
		}

		out = append(out, GraceExpiry{
			Item:   item,
			NoShow: next == domain.QueueNoShow,
			Err:    fmt.Errorf("%w: queue item id=%d -> %s", domain.ErrQueueGraceExpired, item.ID, item.Status),
		})
	}

	if len(out) > 0 {
		d.logger.Info("ExpireDue: %d queue items expired", len(out))
	}
	return out, nil
}

// Get возвращает элемент очереди по ID
func (d *Dispatcher) Get(ctx context.Context, id int64) (*domain.QueueItem, error) {
	item, err := d.repo.GetQueueItem(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: queue item id=%d", domain.ErrUnknownEntity, id)
		}
		d.logger.Error("Get: repository error for queue item id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get queue item: %v", ErrInternal, err)
	}
	return item, nil
}

// List возвращает элементы очереди аккаунта
func (d *Dispatcher) List(ctx context.Context, filter domain.QueueFilter) ([]*domain.QueueItem, error) {
	if filter.AccountID <= 0 {
		return nil, fmt.Errorf("%w: accountId must be positive", ErrInvalidInput)
	}
	list, err := d.repo.ListQueueItems(ctx, filter)
	if err != nil {
		d.logger.Error("List: repository error for account=%d: %v", filter.AccountID, err)
		return nil, fmt.Errorf("%w: list queue: %v", ErrInternal, err)
	}
	return list, nil
}

// CheckIns возвращает журнал чек-инов и вызовов элемента
func (d *Dispatcher) CheckIns(ctx context.Context, itemID int64) ([]domain.CheckIn, error) {
	if _, err := d.Get(ctx, itemID); err != nil {
		return nil, err
	}
	list, err := d.repo.ListCheckIns(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: list check-ins: %v", ErrInternal, err)
	}
	return list, nil
}

var errGraceNotElapsed = errors.New("queue: grace period not elapsed")

type mutator func(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) error

// transition переводит элемент по таблице переходов и пересчитывает его очередь
func (d *Dispatcher) transition(ctx context.Context, itemID int64, next domain.QueueItemStatus, mutate mutator) (*domain.QueueItem, error) {
	current, err := d.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	policy, err := d.policy(ctx, current.AccountID, current.TeamMemberID)
	if err != nil {
		return nil, err
	}

	unlock := d.locks.Lock(current.ScopeKey(policy.QueueAssignmentMode))
	defer unlock()

	var (
		item      *domain.QueueItem
		from      domain.QueueItemStatus
		preCalled []*domain.QueueItem
	)
	err = d.txManager.Do(ctx, func(ctx context.Context) error {
		// Перечитываем под блокировкой
		fresh, err := d.Get(ctx, itemID)
		if err != nil {
			return err
		}
		from = fresh.Status
		if err := from.ValidateTransition(next); err != nil {
			return err
		}

		now := d.clock.Now()
		if mutate != nil {
			if err := mutate(ctx, fresh, policy, now); err != nil {
				return err
			}
		}
		fresh.Status = next
		fresh.Stamp(next, now)

		item, preCalled, err = d.recomputeScope(ctx, fresh, policy, now)
		return err
	})
	if err != nil {
		if !errors.Is(err, errGraceNotElapsed) {
			d.logger.Warn("transition: queue item id=%d -> %s rejected: %v", itemID, next, err)
		}
		return nil, err
	}

	d.metrics.QueueTransitioned(string(next))
	d.logger.Info("transition: queue item id=%d %s -> %s", item.ID, from, next)

	switch next {
	case domain.QueueCalled:
		d.notify(ctx, domain.EventQueueCalled, item)
	case domain.QueueNoShow:
		d.notify(ctx, domain.EventQueueNoShow, item)
	}
	d.announce(ctx, preCalled)
	return item, nil
}

// recomputeScope пересчитывает очередь элемента и сохраняет изменения одним вызовом.
// Выполняется под блокировкой очереди.
func (d *Dispatcher) recomputeScope(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) (*domain.QueueItem, []*domain.QueueItem, error) {
	active, err := d.repo.ListQueueItems(ctx, scopeFilter(item.AccountID, item.TeamMemberID, policy.QueueAssignmentMode, activeStatuses))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list queue: %w", ErrInternal, err)
	}

	// Подменяем сохраненную версию элемента измененной
	scope := make([]*domain.QueueItem, 0, len(active)+1)
	for _, other := range active {
		if other.ID != item.ID {
			scope = append(scope, other)
		}
	}
	if !item.Status.IsTerminal() {
		scope = append(scope, item)
	} else {
		item.Position, item.EtaMinutes = 0, 0
	}

	changed, preCalled := recompute(scope, policy, now)

	toStore := []*domain.QueueItem{item}
	for _, c := range changed {
		if c.ID != item.ID {
			toStore = append(toStore, c)
		}
	}
	if err := d.repo.UpdateQueueItems(ctx, toStore); err != nil {
		return nil, nil, fmt.Errorf("%w: update queue items: %w", ErrInternal, err)
	}
	return item, preCalled, nil
}

func (d *Dispatcher) linkReservation(ctx context.Context, item *domain.QueueItem, reservationID int64, now time.Time) (bool, error) {
	r, err := d.reservations.Get(ctx, reservationID)
	if err != nil {
		return false, err
	}
	if r.AccountID != item.AccountID {
		return false, fmt.Errorf("%w: reservation id=%d in account=%d", domain.ErrUnknownEntity, r.ID, item.AccountID)
	}
	if !r.IsBlocking() {
		return false, fmt.Errorf("%w: reservation id=%d is %s", domain.ErrInvalidTransition, r.ID, r.Status)
	}

	policy, err := d.policy(ctx, r.AccountID, &r.TeamMemberID)
	if err != nil {
		return false, err
	}
	if now.Before(r.StartsAt.Add(-policy.CheckInEarly())) {
		return false, fmt.Errorf("%w: check-in for reservation id=%d opens at %s", domain.ErrOutOfPolicyWindow,
			r.ID, r.StartsAt.Add(-policy.CheckInEarly()).Format(time.RFC3339))
	}

	if item.ClientID == nil {
		item.ClientID = r.ClientID
	}
	if item.ServiceID == nil {
		item.ServiceID = r.ServiceID
	}

	// После буферизованного конца бронирования клиент считается новым walk-in
	if !now.Before(r.Footprint().End) {
		item.SetMeta(domain.MetaLateForReservation, strconv.FormatInt(r.ID, 10))
		return true, nil
	}

	item.ReservationID = &r.ID
	item.ItemType = domain.QueueItemTicket
	if item.TeamMemberID == nil {
		item.TeamMemberID = &r.TeamMemberID
	}
	if item.EstimatedDurationMinutes == 0 {
		item.EstimatedDurationMinutes = r.DurationMinutes
	}
	item.SetMeta(domain.MetaReservationStartsAt, r.StartsAt.UTC().Format(time.RFC3339))
	return false, nil
}

// ensureNotQueued бронирование занимает не больше одного активного места в очереди
func (d *Dispatcher) ensureNotQueued(ctx context.Context, accountID, reservationID int64) error {
	queued, err := d.repo.ListQueueItems(ctx, domain.QueueFilter{
		AccountID:     accountID,
		Statuses:      activeStatuses,
		ReservationID: &reservationID,
	})
	if err != nil {
		return fmt.Errorf("%w: list queue by reservation: %w", ErrInternal, err)
	}
	if len(queued) > 0 {
		return fmt.Errorf("%w: reservation id=%d is already in queue as item id=%d",
			domain.ErrInvalidTransition, reservationID, queued[0].ID)
	}
	return nil
}

func (d *Dispatcher) estimate(ctx context.Context, serviceID *int64) int {
	if serviceID == nil {
		return domain.DefaultEstimatedQueueMinutes
	}
	svc, err := d.directory.Service(ctx, *serviceID)
	if err != nil || svc.DurationMinutes <= 0 {
		if err != nil && !errors.Is(err, directory.ErrServiceNotFound) {
			d.logger.Warn("estimate: directory error for service=%d: %v", *serviceID, err)
		}
		return domain.DefaultEstimatedQueueMinutes
	}
	return svc.DurationMinutes
}

// ensureTeamMember сотрудник должен существовать в справочнике
func (d *Dispatcher) ensureTeamMember(ctx context.Context, teamMemberID int64) error {
	if _, err := d.directory.TeamMember(ctx, teamMemberID); err != nil {
		if errors.Is(err, directory.ErrTeamMemberNotFound) {
			return fmt.Errorf("%w: team member id=%d", domain.ErrUnknownEntity, teamMemberID)
		}
		return fmt.Errorf("%w: directory: %v", ErrInternal, err)
	}
	return nil
}

// localDay календарный день чек-ина в часовом поясе очереди аккаунта.
// Один счетчик номеров на аккаунт, независимо от сотрудника.
func (d *Dispatcher) localDay(ctx context.Context, accountID int64, now time.Time) (time.Time, error) {
	policy, err := d.policy(ctx, accountID, nil)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := policy.QueueLocation()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: queue timezone %q: %v", ErrInvalidInput, policy.QueueTimezone, err)
	}
	return domain.DateOnly(now.In(loc)), nil
}

func (d *Dispatcher) policy(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error) {
	policy, err := d.policies.Resolve(ctx, accountID, teamMemberID)
	if err != nil {
		d.logger.Error("policy: failed to resolve for account=%d: %v", accountID, err)
		return domain.SchedulingPolicy{}, fmt.Errorf("%w: resolve policy: %v", ErrInternal, err)
	}
	return policy, nil
}

func (d *Dispatcher) announce(ctx context.Context, preCalled []*domain.QueueItem) {
	for _, item := range preCalled {
		d.metrics.QueueTransitioned(string(domain.QueuePreCalled))
		d.notify(ctx, domain.EventQueuePreCalled, item)
	}
}

func (d *Dispatcher) notify(ctx context.Context, event string, item *domain.QueueItem) {
	payload := map[string]interface{}{
		"queue_item_id": item.ID,
		"queue_number":  item.QueueNumber,
		"status":        string(item.Status),
		"position":      item.Position,
		"eta_minutes":   item.EtaMinutes,
	}
	if item.CallExpiresAt != nil {
		payload["call_expires_at"] = item.CallExpiresAt.Format(time.RFC3339)
	}
	d.notifier.Notify(ctx, event, domain.Recipient{
		AccountID:    item.AccountID,
		ClientID:     item.ClientID,
		TeamMemberID: item.TeamMemberID,
	}, payload)
}

// requeue возвращает элемент в конец очереди
func requeue(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) error {
	item.CallExpiresAt = nil
	item.CheckedInAt = now
	item.SetMeta(domain.MetaSkippedAt, now.Format(time.RFC3339))
	count, _ := strconv.Atoi(item.Metadata[domain.MetaSkipCount])
	item.SetMeta(domain.MetaSkipCount, strconv.Itoa(count+1))
	return nil
}

func clearCall(ctx context.Context, item *domain.QueueItem, policy domain.SchedulingPolicy, now time.Time) error {
	item.CallExpiresAt = nil
	return nil
}

var activeStatuses = []domain.QueueItemStatus{
	domain.QueueCheckedIn,
	domain.QueuePreCalled,
	domain.QueueSkipped,
	domain.QueueCalled,
	domain.QueueStarted,
}

func scopeFilter(accountID int64, teamMemberID *int64, mode domain.QueueAssignmentMode, statuses []domain.QueueItemStatus) domain.QueueFilter {
	filter := domain.QueueFilter{AccountID: accountID, Statuses: statuses}
	if mode == domain.AssignmentPerStaff {
		if teamMemberID == nil {
			filter.Unassigned = true
		} else {
			filter.TeamMemberID = teamMemberID
		}
	}
	return filter
}

func channelFor(source domain.QueueSource) domain.CheckInChannel {
	switch source {
	case domain.QueueSourceStaff:
		return domain.CheckInStaff
	case domain.QueueSourceOnline:
		return domain.CheckInOnline
	default:
		return domain.CheckInKiosk
	}
}

func validateCheckInRequest(req *CheckInRequest) error {
	if req == nil || req.AccountID <= 0 {
		return fmt.Errorf("%w: accountId must be positive", ErrInvalidInput)
	}
	if !req.Source.IsValid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}
	if req.Priority < 0 {
		return fmt.Errorf("%w: priority must not be negative", ErrInvalidInput)
	}
	if req.EstimatedDurationMinutes < 0 || req.EstimatedDurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: estimatedDurationMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	return nil
}
