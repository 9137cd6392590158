package directory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Static справочник в памяти, используется в режиме storage.driver = "memory" и в тестах
type Static struct {
	mu          sync.RWMutex
	teamMembers map[int64]domain.TeamMember
	services    map[int64]domain.Service
	clients     map[int64]domain.Client
}

// NewStatic создает пустой справочник
func NewStatic() *Static {
	return &Static{
		teamMembers: make(map[int64]domain.TeamMember),
		services:    make(map[int64]domain.Service),
		clients:     make(map[int64]domain.Client),
	}
}

// AddTeamMember регистрирует сотрудника
func (s *Static) AddTeamMember(tm domain.TeamMember) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamMembers[tm.ID] = tm
	return s
}

// AddService регистрирует услугу
func (s *Static) AddService(svc domain.Service) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
	return s
}

// AddClient регистрирует клиента
func (s *Static) AddClient(c domain.Client) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	return s
}

func (s *Static) TeamMember(ctx context.Context, id int64) (*domain.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tm, ok := s.teamMembers[id]
	if !ok {
		return nil, ErrTeamMemberNotFound
	}
	return &tm, nil
}

func (s *Static) Service(ctx context.Context, id int64) (*domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

func (s *Static) Client(ctx context.Context, id int64) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return &c, nil
}
