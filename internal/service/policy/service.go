package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage"
)

// Service резолвит политику расписания по иерархии:
// defaults < account-wide < team member, поле за полем
type Service struct {
	repo   PolicyRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(repo PolicyRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Resolve возвращает действующую политику для аккаунта и (опционально) сотрудника
func (s *Service) Resolve(ctx context.Context, accountID int64, teamMemberID *int64) (domain.SchedulingPolicy, error) {
	policy := domain.DefaultPolicy(accountID)

	// 1. Слой аккаунта
	accountLayer, err := s.layer(ctx, accountID, nil)
	if err != nil {
		return policy, err
	}
	if accountLayer != nil {
		policy = policy.Apply(*accountLayer)
	}

	// 2. Слой сотрудника перекрывает слой аккаунта
	if teamMemberID != nil {
		memberLayer, err := s.layer(ctx, accountID, teamMemberID)
		if err != nil {
			return policy, err
		}
		if memberLayer != nil {
			policy = policy.Apply(*memberLayer)
		}
		policy.TeamMemberID = teamMemberID
	}

	return policy, nil
}

// Upsert валидирует и сохраняет слой политики
func (s *Service) Upsert(ctx context.Context, settings *domain.PolicySettings) (*domain.PolicySettings, error) {
	s.logger.Info("Upsert: saving policy for account=%d, team_member=%v", settings.AccountID, settings.TeamMemberID)

	if err := ValidateSettings(settings); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.repo.UpsertPolicySettings(ctx, settings)
	if err != nil {
		s.logger.Error("Upsert: repository error for account=%d: %v", settings.AccountID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved policy id=%d", saved.ID)
	return saved, nil
}

func (s *Service) layer(ctx context.Context, accountID int64, teamMemberID *int64) (*domain.PolicySettings, error) {
	settings, err := s.repo.GetPolicySettings(ctx, accountID, teamMemberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Resolve: repository error for account=%d, team_member=%v: %v", accountID, teamMemberID, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}
