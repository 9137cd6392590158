package memory

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// GetPolicySettings returns the settings row of exactly this scope
func (s *Store) GetPolicySettings(ctx context.Context, accountID int64, teamMemberID *int64) (*domain.PolicySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[policyKey{accountID: accountID, teamMemberID: tmKey(teamMemberID)}]
	if !ok {
		return nil, fmt.Errorf("%w: policy account=%d", storage.ErrNotFound, accountID)
	}
	out := *p
	return &out, nil
}

// UpsertPolicySettings creates or replaces the settings row of the scope
func (s *Store) UpsertPolicySettings(ctx context.Context, p *domain.PolicySettings) (*domain.PolicySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := policyKey{accountID: p.AccountID, teamMemberID: tmKey(p.TeamMemberID)}
	stored := *p
	now := s.now()
	if existing, ok := s.policies[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.ID = s.id()
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.policies[key] = &stored

	out := stored
	return &out, nil
}
