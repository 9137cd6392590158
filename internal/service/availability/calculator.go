package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// maxRangeDays upper bound of one calculation request
const maxRangeDays = 92

// Calculator собирает открытые интервалы сотрудника за диапазон дат
type Calculator struct {
	repo   AvailabilityRepository
	logger Logger
}

// NewCalculator создает новый калькулятор доступности
func NewCalculator(repo AvailabilityRepository, logger Logger) *Calculator {
	return &Calculator{
		repo:   repo,
		logger: logger,
	}
}

// Request параметры расчета
type Request struct {
	TeamMember domain.TeamMember
	From       time.Time // account-local calendar date
	To         time.Time // account-local calendar date, inclusive
	Policy     domain.SchedulingPolicy
	Now        time.Time
}

// OpenIntervals returns ordered, non-overlapping UTC open intervals covering [From, To]
func (c *Calculator) OpenIntervals(ctx context.Context, req Request) ([]domain.Interval, error) {
	loc, err := time.LoadLocation(req.TeamMember.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidInput, req.TeamMember.Timezone, err)
	}

	from, to := domain.DateOnly(req.From), domain.DateOnly(req.To)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", ErrInvalidInput,
			to.Format(domain.DateFormat), from.Format(domain.DateFormat))
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, maxRangeDays)
	}

	weekly, err := c.repo.ListWeeklyAvailability(ctx, req.TeamMember.ID)
	if err != nil {
		c.logger.Error("OpenIntervals: failed to load weekly availability for team_member=%d: %v", req.TeamMember.ID, err)
		return nil, fmt.Errorf("%w: OpenIntervals - weekly availability: %v", ErrInternal, err)
	}

	exceptions, err := c.repo.ListAvailabilityExceptions(ctx, req.TeamMember.AccountID, req.TeamMember.ID, from, to)
	if err != nil {
		c.logger.Error("OpenIntervals: failed to load exceptions for team_member=%d: %v", req.TeamMember.ID, err)
		return nil, fmt.Errorf("%w: OpenIntervals - exceptions: %v", ErrInternal, err)
	}

	return Compute(from, to, loc, weekly, exceptions, req.Policy, req.Now), nil
}

// Compute runs every layer for each date of [from, to] and merges the result in UTC
func Compute(
	from, to time.Time,
	loc *time.Location,
	weekly []domain.WeeklyAvailability,
	exceptions []domain.AvailabilityException,
	policy domain.SchedulingPolicy,
	now time.Time,
) []domain.Interval {
	all := make([]domain.Interval, 0)
	for date := domain.DateOnly(from); !date.After(domain.DateOnly(to)); date = date.AddDate(0, 0, 1) {
		day := Recurring(date, loc, weekly)
		day = ApplyExceptions(date, loc, day, exceptions)
		all = append(all, day...)
	}

	merged := domain.MergeIntervals(all)
	for i := range merged {
		merged[i] = merged[i].UTC()
	}
	return ClampToPolicy(merged, policy, now)
}
