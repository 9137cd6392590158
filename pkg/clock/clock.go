package clock

import (
	"sync"
	"time"
)

// Real провайдер текущего времени для production
type Real struct{}

// Now возвращает текущее время в UTC
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Manual управляемые часы для тестов и симуляций
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual создает часы, остановленные в указанный момент
func NewManual(at time.Time) *Manual {
	return &Manual{now: at.UTC()}
}

// Now возвращает текущее значение часов
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set переставляет часы на указанный момент
func (m *Manual) Set(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = at.UTC()
}

// Advance сдвигает часы вперед на d
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
