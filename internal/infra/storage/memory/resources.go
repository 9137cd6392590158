package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// CreateResource adds a resource
func (s *Store) CreateResource(ctx context.Context, r domain.Resource) (*domain.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.id()
	r.CreatedAt = s.now()
	stored := r
	s.resources[r.ID] = &stored
	return &r, nil
}

// GetResource returns a resource by id
func (s *Store) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("%w: resource id=%d", storage.ErrNotFound, id)
	}
	out := *r
	return &out, nil
}

// ListResources returns every resource of the account ordered by id
func (s *Store) ListResources(ctx context.Context, accountID int64) ([]*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Resource, 0)
	for _, r := range s.resources {
		if r.AccountID != accountID {
			continue
		}
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
