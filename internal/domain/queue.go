package domain

import (
	"fmt"
	"strconv"
	"time"
)

// QueueItemStatus represents the status of a queue item
type QueueItemStatus string

const (
	QueueCheckedIn QueueItemStatus = "checked_in"
	QueuePreCalled QueueItemStatus = "pre_called"
	QueueCalled    QueueItemStatus = "called"
	QueueStarted   QueueItemStatus = "started"
	QueueFinished  QueueItemStatus = "finished"
	QueueCancelled QueueItemStatus = "cancelled"
	QueueLeft      QueueItemStatus = "left"
	QueueSkipped   QueueItemStatus = "skipped"
	QueueNoShow    QueueItemStatus = "no_show"
)

var queueTransitions = map[QueueItemStatus][]QueueItemStatus{
	QueueCheckedIn: {QueuePreCalled, QueueCalled, QueueCancelled, QueueLeft},
	QueuePreCalled: {QueueCalled, QueueCancelled, QueueLeft},
	QueueCalled:    {QueueStarted, QueueNoShow, QueueSkipped, QueueCancelled, QueueLeft},
	QueueSkipped:   {QueuePreCalled, QueueCalled, QueueCancelled, QueueLeft},
	QueueStarted:   {QueueFinished, QueueCancelled, QueueLeft},
}

// IsValid returns true for known statuses
func (s QueueItemStatus) IsValid() bool {
	switch s {
	case QueueCheckedIn, QueuePreCalled, QueueCalled, QueueStarted, QueueFinished,
		QueueCancelled, QueueLeft, QueueSkipped, QueueNoShow:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leaves the status
func (s QueueItemStatus) IsTerminal() bool {
	return len(queueTransitions[s]) == 0
}

// IsWaiting returns true for items that still hold a place in line
func (s QueueItemStatus) IsWaiting() bool {
	return s == QueueCheckedIn || s == QueuePreCalled || s == QueueSkipped
}

// CanTransitionTo checks the edge against the transition table
func (s QueueItemStatus) CanTransitionTo(next QueueItemStatus) bool {
	for _, allowed := range queueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for edges outside the table
func (s QueueItemStatus) ValidateTransition(next QueueItemStatus) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: queue item %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// QueueItemType kind of a queue item
type QueueItemType string

const (
	QueueItemTicket QueueItemType = "ticket"
	QueueItemWalkIn QueueItemType = "walk_in"
)

// IsValid returns true for known item types
func (t QueueItemType) IsValid() bool {
	return t == QueueItemTicket || t == QueueItemWalkIn
}

// QueueSource channel through which the client entered the queue
type QueueSource string

const (
	QueueSourceKiosk  QueueSource = "kiosk"
	QueueSourceStaff  QueueSource = "staff"
	QueueSourceOnline QueueSource = "online"
)

// IsValid returns true for known sources
func (s QueueSource) IsValid() bool {
	switch s {
	case QueueSourceKiosk, QueueSourceStaff, QueueSourceOnline:
		return true
	}
	return false
}

// QueueItem a walk-in or ticket in the live queue
type QueueItem struct {
	ID                       int64
	AccountID                int64
	ReservationID            *int64 // weak link, may be absent
	ClientID                 *int64
	ServiceID                *int64
	TeamMemberID             *int64
	ItemType                 QueueItemType
	Source                   QueueSource
	QueueNumber              int
	Status                   QueueItemStatus
	Priority                 int
	EstimatedDurationMinutes int

	CheckedInAt   time.Time
	PreCalledAt   *time.Time
	CalledAt      *time.Time
	CallExpiresAt *time.Time
	StartedAt     *time.Time
	FinishedAt    *time.Time
	CancelledAt   *time.Time
	LeftAt        *time.Time
	SkippedAt     *time.Time
	NoShowAt      *time.Time

	Position   int // 0 when the item no longer waits
	EtaMinutes int

	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stamp records the transition timestamp for the status
func (q *QueueItem) Stamp(status QueueItemStatus, at time.Time) {
	t := at
	switch status {
	case QueueCheckedIn:
		q.CheckedInAt = at
	case QueuePreCalled:
		q.PreCalledAt = &t
	case QueueCalled:
		q.CalledAt = &t
	case QueueStarted:
		q.StartedAt = &t
	case QueueFinished:
		q.FinishedAt = &t
	case QueueCancelled:
		q.CancelledAt = &t
	case QueueLeft:
		q.LeftAt = &t
	case QueueSkipped:
		q.SkippedAt = &t
	case QueueNoShow:
		q.NoShowAt = &t
	}
}

// ScopeKey returns the effective queue key for the assignment mode
func (q *QueueItem) ScopeKey(mode QueueAssignmentMode) string {
	return QueueScopeKey(q.AccountID, q.TeamMemberID, mode)
}

// GraceElapsed returns true if the item is called and its grace deadline passed
func (q *QueueItem) GraceElapsed(now time.Time) bool {
	return q.Status == QueueCalled && q.CallExpiresAt != nil && !now.Before(*q.CallExpiresAt)
}

// SetMeta sets a metadata key, allocating the map when needed
func (q *QueueItem) SetMeta(key, value string) {
	if q.Metadata == nil {
		q.Metadata = make(map[string]string)
	}
	q.Metadata[key] = value
}

// Clone returns a deep copy
func (q *QueueItem) Clone() *QueueItem {
	if q == nil {
		return nil
	}
	out := *q
	out.ReservationID = cloneInt64(q.ReservationID)
	out.ClientID = cloneInt64(q.ClientID)
	out.ServiceID = cloneInt64(q.ServiceID)
	out.TeamMemberID = cloneInt64(q.TeamMemberID)
	for _, p := range []**time.Time{
		&out.PreCalledAt, &out.CalledAt, &out.CallExpiresAt, &out.StartedAt, &out.FinishedAt,
		&out.CancelledAt, &out.LeftAt, &out.SkippedAt, &out.NoShowAt,
	} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	if q.Metadata != nil {
		out.Metadata = make(map[string]string, len(q.Metadata))
		for k, v := range q.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// QueueScopeKey effective queue: account-wide under global_pull, per team member under per_staff
func QueueScopeKey(accountID int64, teamMemberID *int64, mode QueueAssignmentMode) string {
	key := "q:" + strconv.FormatInt(accountID, 10)
	if mode == AssignmentPerStaff {
		if teamMemberID == nil {
			return key + ":unassigned"
		}
		return key + ":" + strconv.FormatInt(*teamMemberID, 10)
	}
	return key
}

// QueueFilter фильтр для выборки элементов очереди
type QueueFilter struct {
	AccountID     int64
	TeamMemberID  *int64 // nil = все сотрудники
	Unassigned    bool   // только элементы без сотрудника
	Statuses      []QueueItemStatus
	Since         *time.Time // checked_in_at >= Since
	ReservationID *int64     // только элементы, привязанные к бронированию
}

// CheckInChannel channel that produced a check-in event
type CheckInChannel string

const (
	CheckInKiosk  CheckInChannel = "kiosk"
	CheckInStaff  CheckInChannel = "staff"
	CheckInOnline CheckInChannel = "online"
	CheckInCall   CheckInChannel = "call"
)

// CheckIn immutable audit record of a check-in or a call of a queue item
type CheckIn struct {
	ID            string // uuid
	AccountID     int64
	QueueItemID   int64
	ReservationID *int64
	Channel       CheckInChannel
	GraceDeadline *time.Time
	CreatedAt     time.Time
}
