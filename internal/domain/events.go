package domain

// Event names passed to the notifier
const (
	EventReservationCreated     = "reservation_created"
	EventReservationConfirmed   = "reservation_confirmed"
	EventReservationCancelled   = "reservation_cancelled"
	EventReservationRescheduled = "reservation_rescheduled"
	EventReservationCompleted   = "reservation_completed"
	EventReservationNoShow      = "reservation_no_show"
	EventWaitlistMatched        = "waitlist_matched"
	EventQueuePreCalled         = "queue_pre_called"
	EventQueueCalled            = "queue_called"
	EventQueueNoShow            = "queue_no_show"
	EventReviewSubmitted        = "review_submitted"
)

// Recipient addressee of a notification, resolved by the notifier
type Recipient struct {
	AccountID    int64  `json:"account_id"`
	ClientID     *int64 `json:"client_id,omitempty"`
	TeamMemberID *int64 `json:"team_member_id,omitempty"`
}

// FreedSlot capacity released by a cancellation or a reschedule
type FreedSlot struct {
	AccountID     int64
	TeamMemberID  int64
	ServiceID     *int64
	ReservationID int64
	Interval      Interval
	BufferMinutes int
}
