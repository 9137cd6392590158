package resources

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Allocator подбирает конкретные ресурсы под фильтры бронирования без превышения вместимости
type Allocator struct {
	repo   ResourceRepository
	logger Logger
}

// NewAllocator создает новый экземпляр аллокатора
func NewAllocator(repo ResourceRepository, logger Logger) *Allocator {
	return &Allocator{
		repo:   repo,
		logger: logger,
	}
}

// Request параметры распределения
type Request struct {
	AccountID    int64
	TeamMemberID int64
	Footprint    domain.Interval // buffered interval of the reservation
	Filters      []domain.ResourceFilter

	// ExcludeReservationID usage of this reservation is ignored (reschedule of itself)
	ExcludeReservationID *int64
}

// Candidates returns every resource that could serve at least one filter.
// Explicit ids that do not exist in the account fail with ErrUnknownEntity.
func (a *Allocator) Candidates(ctx context.Context, req Request) ([]*domain.Resource, error) {
	if len(req.Filters) == 0 {
		return nil, nil
	}
	if err := ValidateFilters(req.Filters); err != nil {
		return nil, err
	}

	all, err := a.repo.ListResources(ctx, req.AccountID)
	if err != nil {
		a.logger.Error("Candidates: failed to list resources for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: Candidates - repository error: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Resource, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	for _, f := range req.Filters {
		if f.ResourceID != nil {
			if _, ok := byID[*f.ResourceID]; !ok {
				return nil, fmt.Errorf("%w: resource id=%d", domain.ErrUnknownEntity, *f.ResourceID)
			}
		}
	}

	out := make([]*domain.Resource, 0)
	for _, r := range all {
		if !r.UsableBy(req.AccountID, req.TeamMemberID) {
			continue
		}
		for _, f := range req.Filters {
			if f.Matches(r) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

// Plan resolves the filters into allocations, all or nothing.
// Must run inside the same critical section as the reservation insert it serves.
func (a *Allocator) Plan(ctx context.Context, req Request) ([]domain.Allocation, error) {
	if len(req.Filters) == 0 {
		return nil, nil
	}

	candidates, err := a.Candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(candidates))
	for i, r := range candidates {
		ids[i] = r.ID
	}
	usage, err := a.repo.ListResourceUsage(ctx, ids, req.Footprint)
	if err != nil {
		a.logger.Error("Plan: failed to load usage for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: Plan - repository error: %v", ErrInternal, err)
	}

	if req.ExcludeReservationID != nil {
		kept := usage[:0]
		for _, u := range usage {
			if u.ReservationID != *req.ExcludeReservationID {
				kept = append(kept, u)
			}
		}
		usage = kept
	}

	committed := PeakUsage(usage, req.Footprint)

	planned, ok := search(orderFilters(req.Filters), candidates, committed)
	if !ok {
		a.logger.Warn("Plan: no resource combination for account=%d, team_member=%d, window=%s..%s",
			req.AccountID, req.TeamMemberID, req.Footprint.Start, req.Footprint.End)
		return nil, fmt.Errorf("%w: no combination satisfies %d filter(s)", domain.ErrResourceUnavailable, len(req.Filters))
	}

	return planned, nil
}

// ValidateFilters проверяет, что каждый фильтр задает ровно один селектор
func ValidateFilters(filters []domain.ResourceFilter) error {
	for i, f := range filters {
		if !f.IsValid() {
			return fmt.Errorf("%w: filter #%d must set exactly one of resourceId or type", ErrInvalidInput, i)
		}
		if f.Quantity < 0 {
			return fmt.Errorf("%w: filter #%d quantity must not be negative", ErrInvalidInput, i)
		}
	}
	return nil
}

// PeakUsage returns, per resource, the maximum quantity held at any instant inside window
func PeakUsage(usage []domain.ResourceUsage, window domain.Interval) map[int64]int {
	type event struct {
		at    int64
		delta int
	}
	events := make(map[int64][]event)
	for _, u := range usage {
		part, ok := u.Footprint.Intersect(window)
		if !ok {
			continue
		}
		events[u.ResourceID] = append(events[u.ResourceID],
			event{at: part.Start.UnixNano(), delta: u.Quantity},
			event{at: part.End.UnixNano(), delta: -u.Quantity},
		)
	}

	peaks := make(map[int64]int, len(events))
	for id, evs := range events {
		// half-open intervals: releases at t happen before acquisitions at t
		sort.Slice(evs, func(i, j int) bool {
			if evs[i].at == evs[j].at {
				return evs[i].delta < evs[j].delta
			}
			return evs[i].at < evs[j].at
		})
		current, peak := 0, 0
		for _, e := range evs {
			current += e.delta
			if current > peak {
				peak = current
			}
		}
		peaks[id] = peak
	}
	return peaks
}

// orderFilters puts explicit resource ids first, then larger quantities
func orderFilters(filters []domain.ResourceFilter) []domain.ResourceFilter {
	out := make([]domain.ResourceFilter, len(filters))
	copy(out, filters)
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i].ResourceID != nil, out[j].ResourceID != nil
		if ei != ej {
			return ei
		}
		return out[i].EffectiveQuantity() > out[j].EffectiveQuantity()
	})
	return out
}

// search assigns each filter to one resource by backtracking; planned quantities count against capacity
func search(filters []domain.ResourceFilter, candidates []*domain.Resource, committed map[int64]int) ([]domain.Allocation, bool) {
	planned := make(map[int64]int)

	var assign func(i int) bool
	assign = func(i int) bool {
		if i == len(filters) {
			return true
		}
		f := filters[i]
		qty := f.EffectiveQuantity()
		for _, r := range candidates {
			if !f.Matches(r) {
				continue
			}
			if committed[r.ID]+planned[r.ID]+qty > r.Capacity {
				continue
			}
			planned[r.ID] += qty
			if assign(i + 1) {
				return true
			}
			planned[r.ID] -= qty
		}
		return false
	}

	if !assign(0) {
		return nil, false
	}

	out := make([]domain.Allocation, 0, len(planned))
	for _, r := range candidates {
		if q := planned[r.ID]; q > 0 {
			out = append(out, domain.Allocation{ResourceID: r.ID, Quantity: q})
		}
	}
	return out, true
}
