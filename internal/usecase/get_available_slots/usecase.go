package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/directory"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
)

// UseCase use case для получения доступных слотов сотрудника
type UseCase struct {
	reservationRepo ReservationRepository
	policies        PolicyResolver
	openHours       OpenHoursCalculator
	directory       Directory
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	policies PolicyResolver,
	openHours OpenHoursCalculator,
	directory Directory,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policies:        policies,
		openHours:       openHours,
		directory:       directory,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// searchInput собранные данные для генерации слотов
type searchInput struct {
	teamMember *domain.TeamMember
	loc        *time.Location
	policy     domain.SchedulingPolicy
	duration   int
	now        time.Time
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: account=%d, team_member=%d, from=%s, to=%s",
		req.AccountID, req.TeamMemberID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 2. Сотрудник, длительность и политика
	in, err := uc.prepare(ctx, req.AccountID, req.TeamMemberID, req.ServiceID, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	// 3. Открытые интервалы за диапазон дат
	open, err := uc.openIntervals(ctx, in, domain.DateOnly(req.From), domain.DateOnly(req.To))
	if err != nil {
		return nil, err
	}

	// 4. Генерация слотов с учетом существующих бронирований
	found, err := uc.generate(ctx, in, open, nil, req.Limit)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for team_member=%d", len(found), req.TeamMemberID)

	return &Response{
		AccountID:       req.AccountID,
		TeamMemberID:    req.TeamMemberID,
		Timezone:        in.teamMember.Timezone,
		DurationMinutes: in.duration,
		Slots:           toResponseSlots(found, in.loc),
	}, nil
}

// FirstSlot возвращает первый свободный слот сотрудника, целиком лежащий в окне, или nil
func (uc *UseCase) FirstSlot(ctx context.Context, accountID, teamMemberID int64, window domain.Interval, durationMinutes int) (*domain.Slot, error) {
	if window.IsEmpty() || durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: window and duration are required", ErrInvalidInput)
	}

	in, err := uc.prepare(ctx, accountID, teamMemberID, nil, durationMinutes)
	if err != nil {
		return nil, err
	}

	open, err := uc.openIntervals(ctx, in, window.Start.In(in.loc), window.End.In(in.loc))
	if err != nil {
		return nil, err
	}

	found, err := uc.generate(ctx, in, touchingWindow(open, window), &window, 1)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (uc *UseCase) prepare(ctx context.Context, accountID, teamMemberID int64, serviceID *int64, duration int) (*searchInput, error) {
	tm, err := uc.directory.TeamMember(ctx, teamMemberID)
	if err != nil {
		if errors.Is(err, directory.ErrTeamMemberNotFound) {
			uc.logger.Warn("GetAvailableSlots: team member id=%d not found", teamMemberID)
			return nil, fmt.Errorf("%w: team member id=%d", domain.ErrUnknownEntity, teamMemberID)
		}
		uc.logger.Error("GetAvailableSlots: failed to get team member id=%d: %v", teamMemberID, err)
		return nil, fmt.Errorf("%w: failed to get team member: %v", ErrInternal, err)
	}
	if tm.AccountID != accountID {
		return nil, fmt.Errorf("%w: team member id=%d in account=%d", domain.ErrUnknownEntity, teamMemberID, accountID)
	}

	loc, err := time.LoadLocation(tm.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: team member timezone %q: %v", ErrInvalidInput, tm.Timezone, err)
	}

	if duration == 0 {
		svc, err := uc.directory.Service(ctx, *serviceID)
		if err != nil {
			if errors.Is(err, directory.ErrServiceNotFound) {
				return nil, fmt.Errorf("%w: service id=%d", domain.ErrUnknownEntity, *serviceID)
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		duration = svc.DurationMinutes
		if duration <= 0 {
			return nil, fmt.Errorf("%w: service id=%d has no default duration", ErrInvalidInput, svc.ID)
		}
	}

	policy, err := uc.policies.Resolve(ctx, accountID, &tm.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	return &searchInput{
		teamMember: tm,
		loc:        loc,
		policy:     policy,
		duration:   duration,
		now:        uc.timeProvider.Now(),
	}, nil
}

func (uc *UseCase) openIntervals(ctx context.Context, in *searchInput, from, to time.Time) ([]domain.Interval, error) {
	open, err := uc.openHours.OpenIntervals(ctx, availability.Request{
		TeamMember: *in.teamMember,
		From:       from,
		To:         to,
		Policy:     in.policy,
		Now:        in.now,
	})
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to compute open hours: %v", err)
		return nil, fmt.Errorf("%w: failed to compute open hours: %v", ErrInternal, err)
	}
	return open, nil
}

func (uc *UseCase) generate(ctx context.Context, in *searchInput, open []domain.Interval, window *domain.Interval, limit int) ([]domain.Slot, error) {
	if len(open) == 0 {
		return []domain.Slot{}, nil
	}

	// Бронирования, чей буферизованный интервал может задеть открытые интервалы
	from := open[0].Start.Add(-in.policy.Buffer())
	to := open[len(open)-1].End.Add(in.policy.Buffer())
	existing, err := uc.reservationRepo.ListReservations(ctx, domain.ReservationsFilter{
		TeamMemberID: &in.teamMember.ID,
		From:         &from,
		To:           &to,
		Statuses:     domain.BlockingStatuses,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	params := slots.Params{
		Open:     open,
		Duration: time.Duration(in.duration) * time.Minute,
		Policy:   in.policy,
		Existing: existing,
		Now:      in.now,
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	seq := slots.Generate(params)
	if window != nil {
		seq = slots.Within(seq, *window)
	}
	return slots.Collect(seq, limit), nil
}
