package domain

// TeamMember subset of team member attributes needed to schedule
type TeamMember struct {
	ID        int64
	AccountID int64
	Timezone  string
}

// Service subset of service attributes needed to schedule
type Service struct {
	ID              int64
	AccountID       int64
	DurationMinutes int
}

// Client display identity of a client
type Client struct {
	ID          int64
	DisplayName string
	Email       *string
	Phone       *string
}
