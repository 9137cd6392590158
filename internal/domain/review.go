package domain

import "time"

// Review client feedback on a completed reservation, one per reservation
type Review struct {
	ID            int64
	ReservationID int64
	AccountID     int64
	Rating        int
	Feedback      *string
	CreatedAt     time.Time
}
