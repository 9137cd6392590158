package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

const rescheduledReason = "rescheduled"

// Transition переводит бронирование по ребру таблицы переходов.
// completed и no_show допустимы только для уже начавшихся бронирований.
func (c *Coordinator) Transition(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	if err := validateTransitionRequest(req); err != nil {
		c.logger.Warn("Transition: validation failed: %v", err)
		return nil, err
	}
	c.logger.Info("Transition: reservation id=%d -> %s by %s", req.ReservationID, req.Status, req.Actor)

	current, err := c.Get(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	result, from, err := c.transitionLocked(ctx, current.TeamMemberID, req)
	if err != nil {
		c.logger.Warn("Transition: reservation id=%d rejected: %v", req.ReservationID, err)
		return nil, err
	}

	r := result.Reservation
	c.metrics.ReservationTransitioned(string(from), string(r.Status))
	c.logger.Info("Transition: reservation id=%d %s -> %s (late=%t)", r.ID, from, r.Status, result.LateCancellation)

	// Побочные эффекты выполняются после снятия блокировки
	switch r.Status {
	case domain.ReservationConfirmed:
		result.Reservation = c.notify(ctx, r, domain.EventReservationConfirmed)
	case domain.ReservationCompleted:
		result.Reservation = c.notify(ctx, r, domain.EventReservationCompleted)
	case domain.ReservationNoShow:
		result.BillingErr = c.chargeNoShowFee(ctx, r)
		result.Reservation = c.notify(ctx, r, domain.EventReservationNoShow)
	case domain.ReservationCancelled:
		result.Reservation = c.notify(ctx, r, domain.EventReservationCancelled)
		c.freed(ctx, r)
	}

	return result, nil
}

func (c *Coordinator) transitionLocked(ctx context.Context, teamMemberID int64, req *TransitionRequest) (*TransitionResult, domain.ReservationStatus, error) {
	unlock := c.locks.Lock(teamMemberKey(teamMemberID))
	defer unlock()

	// Перечитываем под блокировкой
	r, err := c.Get(ctx, req.ReservationID)
	if err != nil {
		return nil, "", err
	}
	from := r.Status

	if err := from.ValidateTransition(req.Status); err != nil {
		return nil, from, err
	}

	now := c.clock.Now()
	result := &TransitionResult{}

	switch req.Status {
	case domain.ReservationConfirmed:
		if req.Actor != domain.SourceStaff {
			return nil, from, fmt.Errorf("%w: only staff can confirm reservation id=%d", domain.ErrInvalidTransition, r.ID)
		}
	case domain.ReservationCompleted, domain.ReservationNoShow:
		if !r.HasStarted(now) {
			return nil, from, fmt.Errorf("%w: reservation id=%d starts at %s, in the future",
				domain.ErrInvalidTransition, r.ID, r.StartsAt.Format(time.RFC3339))
		}
	case domain.ReservationCancelled:
		policy, err := c.policies.Resolve(ctx, r.AccountID, &r.TeamMemberID)
		if err != nil {
			return nil, from, fmt.Errorf("%w: resolve policy: %v", ErrInternal, err)
		}
		late, err := checkCancellation(policy, r, req.Actor, now)
		if err != nil {
			return nil, from, err
		}
		if late {
			result.LateCancellation = true
			result.NoShowFeeBillable = policy.NoShowFeeEnabled
			r.SetMeta(domain.MetaLateCancellation, "true")
			if policy.NoShowFeeEnabled {
				r.SetMeta(domain.MetaNoShowFeeBillable, "true")
			}
		}
		r.CancelledAt = &now
		r.CancellationReason = req.Reason
	}

	r.Status = req.Status
	if r.Status == domain.ReservationCancelled {
		err = c.txManager.Do(ctx, func(ctx context.Context) error {
			return c.repo.ReleaseReservation(ctx, r)
		})
	} else {
		err = c.repo.UpdateReservation(ctx, r)
	}
	if err != nil {
		c.logger.Error("Transition: failed to store reservation id=%d: %v", r.ID, err)
		return nil, from, fmt.Errorf("%w: store reservation: %v", ErrInternal, err)
	}

	result.Reservation = r
	return result, from, nil
}

// Cancel отменяет бронирование
func (c *Coordinator) Cancel(ctx context.Context, reservationID int64, actor domain.ReservationSource, reason *string) (*TransitionResult, error) {
	return c.Transition(ctx, &TransitionRequest{
		ReservationID: reservationID,
		Status:        domain.ReservationCancelled,
		Actor:         actor,
		Reason:        reason,
	})
}

// Reschedule создает новое бронирование со ссылкой на исходное и освобождает исходное
// в одной атомарной единице. Ресурсы распределяются заново.
func (c *Coordinator) Reschedule(ctx context.Context, req *RescheduleRequest) (*RescheduleResult, error) {
	if err := validateRescheduleRequest(req); err != nil {
		c.logger.Warn("Reschedule: validation failed: %v", err)
		return nil, err
	}
	c.logger.Info("Reschedule: reservation id=%d -> %s by %s", req.ReservationID, req.StartsAt.UTC().Format(time.RFC3339), req.Actor)

	original, err := c.Get(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if !original.IsBlocking() {
		return nil, fmt.Errorf("%w: reservation id=%d is %s", domain.ErrInvalidTransition, original.ID, original.Status)
	}

	policy, err := c.policies.Resolve(ctx, original.AccountID, &original.TeamMemberID)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve policy: %v", ErrInternal, err)
	}
	if req.Actor == domain.SourceClient {
		if err := checkClientReschedule(policy, original, c.clock.Now()); err != nil {
			c.reject(err)
			return nil, err
		}
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = original.DurationMinutes
	}

	plan, err := c.prepare(ctx, &CommitRequest{
		AccountID:       original.AccountID,
		TeamMemberID:    original.TeamMemberID,
		ClientID:        original.ClientID,
		ServiceID:       original.ServiceID,
		Source:          req.Actor,
		StartsAt:        req.StartsAt,
		DurationMinutes: duration,
		Notes:           original.Notes,
		ResourceFilters: original.ResourceFilters,
	})
	if err != nil {
		c.reject(err)
		return nil, err
	}
	plan.reservation.RescheduledFromID = &original.ID

	reason := req.Reason
	if reason == nil {
		r := rescheduledReason
		reason = &r
	}

	created, allocs, err := c.write(ctx, plan, original, reason)
	if err != nil {
		c.reject(err)
		return nil, err
	}

	c.metrics.ReservationTransitioned(string(original.Status), string(domain.ReservationCancelled))
	c.metrics.ReservationCommitted(string(created.Source))
	c.logger.Info("Reschedule: reservation id=%d replaced by id=%d", original.ID, created.ID)

	released, err := c.Get(ctx, original.ID)
	if err != nil {
		released = original
	}

	result := &RescheduleResult{
		Original:    released,
		Reservation: c.notify(ctx, created, domain.EventReservationRescheduled),
		Allocations: allocs,
	}
	c.freed(ctx, released)
	return result, nil
}

// Get возвращает бронирование по ID
func (c *Coordinator) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := c.repo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: reservation id=%d", domain.ErrUnknownEntity, id)
		}
		c.logger.Error("Get: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return r, nil
}

// ListByTeamMember возвращает бронирования сотрудника, чей буферизованный интервал пересекает [from, to)
func (c *Coordinator) ListByTeamMember(ctx context.Context, teamMemberID int64, from, to time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: empty time range", ErrInvalidInput)
	}
	list, err := c.repo.ListReservations(ctx, domain.ReservationsFilter{
		TeamMemberID: &teamMemberID,
		From:         &from,
		To:           &to,
		Statuses:     statuses,
	})
	if err != nil {
		c.logger.Error("ListByTeamMember: repository error for team_member=%d: %v", teamMemberID, err)
		return nil, fmt.Errorf("%w: ListByTeamMember - repository error: %v", ErrInternal, err)
	}
	return list, nil
}

// ListByClient возвращает историю бронирований клиента
func (c *Coordinator) ListByClient(ctx context.Context, accountID, clientID int64) ([]*domain.Reservation, error) {
	list, err := c.repo.ListReservations(ctx, domain.ReservationsFilter{
		AccountID: &accountID,
		ClientID:  &clientID,
	})
	if err != nil {
		c.logger.Error("ListByClient: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}
	return list, nil
}

// notify отправляет событие и отмечает факт отправки в metadata бронирования
func (c *Coordinator) notify(ctx context.Context, r *domain.Reservation, event string) *domain.Reservation {
	c.notifier.Notify(ctx, event, domain.Recipient{
		AccountID:    r.AccountID,
		ClientID:     r.ClientID,
		TeamMemberID: &r.TeamMemberID,
	}, map[string]interface{}{
		"reservation_id": r.ID,
		"status":         string(r.Status),
		"starts_at":      r.StartsAt.Format(time.RFC3339),
		"ends_at":        r.EndsAt.Format(time.RFC3339),
		"timezone":       r.Timezone,
	})

	unlock := c.locks.Lock(teamMemberKey(r.TeamMemberID))
	defer unlock()

	current, err := c.repo.GetReservation(ctx, r.ID)
	if err != nil {
		c.logger.Warn("notify: failed to reload reservation id=%d: %v", r.ID, err)
		return r
	}
	current.SetMeta(domain.MetaNotifiedPrefix+event, c.clock.Now().Format(time.RFC3339))
	if err := c.repo.UpdateReservation(ctx, current); err != nil {
		c.logger.Warn("notify: failed to store marker %s for reservation id=%d: %v", event, r.ID, err)
		return r
	}
	return current
}

func (c *Coordinator) chargeDeposit(ctx context.Context, r *domain.Reservation, policy domain.SchedulingPolicy) error {
	if !policy.DepositRequired || !policy.DepositAmount.IsPositive() {
		return nil
	}
	if err := c.billing.ChargeDeposit(ctx, r, policy.DepositAmount); err != nil {
		c.logger.Warn("Commit: deposit for reservation id=%d failed: %v", r.ID, err)
		return err
	}
	c.logger.Info("Commit: deposit %s charged for reservation id=%d", policy.DepositAmount, r.ID)
	return nil
}

func (c *Coordinator) chargeNoShowFee(ctx context.Context, r *domain.Reservation) error {
	policy, err := c.policies.Resolve(ctx, r.AccountID, &r.TeamMemberID)
	if err != nil {
		return fmt.Errorf("%w: resolve policy: %v", ErrInternal, err)
	}
	if !policy.NoShowFeeEnabled || !policy.NoShowFeeAmount.IsPositive() {
		return nil
	}
	if err := c.billing.ChargeNoShowFee(ctx, r, policy.NoShowFeeAmount); err != nil {
		c.logger.Warn("Transition: no-show fee for reservation id=%d failed: %v", r.ID, err)
		return err
	}
	return nil
}

func (c *Coordinator) freed(ctx context.Context, r *domain.Reservation) {
	if c.listener == nil {
		return
	}
	c.listener.OnReservationFreed(ctx, domain.FreedSlot{
		AccountID:     r.AccountID,
		TeamMemberID:  r.TeamMemberID,
		ServiceID:     r.ServiceID,
		ReservationID: r.ID,
		Interval:      r.Interval(),
		BufferMinutes: r.BufferMinutes,
	})
}

// checkCancellation returns whether the cancellation falls inside the cutoff window.
// Clients are refused inside the cutoff; staff cancellations are allowed and flagged.
func checkCancellation(policy domain.SchedulingPolicy, r *domain.Reservation, actor domain.ReservationSource, now time.Time) (bool, error) {
	inCutoff := r.Status == domain.ReservationConfirmed && now.After(r.StartsAt.Add(-policy.CancellationCutoff()))

	if actor == domain.SourceClient {
		if !policy.AllowClientCancel {
			return false, fmt.Errorf("%w: client cancellation is disabled", domain.ErrOutOfPolicyWindow)
		}
		if inCutoff {
			return false, fmt.Errorf("%w: reservation id=%d is inside the %dh cancellation cutoff",
				domain.ErrOutOfPolicyWindow, r.ID, policy.CancellationCutoffHours)
		}
	}
	return inCutoff, nil
}

func checkClientReschedule(policy domain.SchedulingPolicy, r *domain.Reservation, now time.Time) error {
	if !policy.AllowClientReschedule {
		return fmt.Errorf("%w: client reschedule is disabled", domain.ErrOutOfPolicyWindow)
	}
	if r.Status == domain.ReservationConfirmed && now.After(r.StartsAt.Add(-policy.CancellationCutoff())) {
		return fmt.Errorf("%w: reservation id=%d is inside the %dh cancellation cutoff",
			domain.ErrOutOfPolicyWindow, r.ID, policy.CancellationCutoffHours)
	}
	return nil
}
