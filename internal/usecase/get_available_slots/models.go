package get_available_slots

import (
	"time"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	AccountID       int64     // ID аккаунта
	TeamMemberID    int64     // ID сотрудника
	ServiceID       *int64    // услуга, задает длительность по умолчанию
	From            time.Time // первая дата диапазона (локальная дата сотрудника)
	To              time.Time // последняя дата диапазона, включительно
	DurationMinutes int       // длительность слота; 0 = длительность услуги
	Limit           int       // максимум слотов в ответе; 0 = все
}

// Response модель ответа со списком доступных слотов
type Response struct {
	AccountID       int64
	TeamMemberID    int64
	Timezone        string
	DurationMinutes int
	Slots           []Slot
}

// Slot модель временного слота
type Slot struct {
	StartsAt        time.Time // начало в UTC
	EndsAt          time.Time // конец в UTC
	LocalStart      string    // HH:MM в часовом поясе сотрудника
	LocalDate       string    // YYYY-MM-DD в часовом поясе сотрудника
	DurationMinutes int
}
