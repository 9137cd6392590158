// Package memory implements every scheduling repository on top of id-indexed maps.
// Entities reference each other only by id; callers always receive copies.
package memory

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Store in-memory arena store
type Store struct {
	mu sync.RWMutex

	nextID int64

	reservations map[int64]*domain.Reservation
	allocations  map[int64][]domain.Allocation // reservation id -> allocations

	policies   map[policyKey]*domain.PolicySettings
	weekly     map[int64][]domain.WeeklyAvailability // team member id -> windows
	exceptions map[int64]*domain.AvailabilityException

	resources map[int64]*domain.Resource

	waitlist map[int64]*domain.WaitlistEntry

	queue        map[int64]*domain.QueueItem
	queueNumbers map[queueDayKey]int
	checkIns     []domain.CheckIn

	reviews map[int64]*domain.Review // reservation id -> review

	now func() time.Time
}

type policyKey struct {
	accountID    int64
	teamMemberID int64 // 0 = account-wide
}

type queueDayKey struct {
	accountID int64
	day       string
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		reservations: make(map[int64]*domain.Reservation),
		allocations:  make(map[int64][]domain.Allocation),
		policies:     make(map[policyKey]*domain.PolicySettings),
		weekly:       make(map[int64][]domain.WeeklyAvailability),
		exceptions:   make(map[int64]*domain.AvailabilityException),
		resources:    make(map[int64]*domain.Resource),
		waitlist:     make(map[int64]*domain.WaitlistEntry),
		queue:        make(map[int64]*domain.QueueItem),
		queueNumbers: make(map[queueDayKey]int),
		reviews:      make(map[int64]*domain.Review),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the time source used for created_at/updated_at
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func tmKey(teamMemberID *int64) int64 {
	if teamMemberID == nil {
		return 0
	}
	return *teamMemberID
}

func containsStatus[T comparable](list []T, v T) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
