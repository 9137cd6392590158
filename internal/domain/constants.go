package domain

import "github.com/shopspring/decimal"

// Default policy values
const (
	DefaultBufferMinutes           = 0
	DefaultSlotIntervalMinutes     = 30
	DefaultMinNoticeMinutes        = 60 // 1 hour
	DefaultMaxAdvanceDays          = 0  // 0 = unlimited
	DefaultCancellationCutoffHours = 24
	DefaultQueueGraceMinutes       = 5
	DefaultQueuePreCallThreshold   = 2
	DefaultCheckInEarlyMinutes     = 60
	DefaultQueueTimezone           = "UTC"
	DefaultEstimatedQueueMinutes   = 15
	DefaultWaitlistHorizonDays     = 30
)

// Business validation constants
const (
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 480 // 8 hours
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 240
	MinNoticeMinutes            = 0
	MaxNoticeMinutes            = 10080 // 1 week
	MinAdvanceDays              = 0
	MaxAdvanceDays              = 365 // 1 year
	MinQueueGraceMinutes        = 1
	MaxQueueGraceMinutes        = 120
	MaxQueuePreCallThreshold    = 50
	MaxCancellationCutoffHours  = 720
	MaxDurationMinutes          = 720
	MaxPartySize                = 50
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReviewFeedbackLength     = 2000
	MinReviewRating             = 1
	MaxReviewRating             = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ZeroAmount сумма по умолчанию для депозита и штрафа
var ZeroAmount = decimal.Zero

// BlockingStatuses статусы бронирований, которые занимают время сотрудника и ресурсы
var BlockingStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
}

// TerminalReservationStatuses конечные статусы бронирования
var TerminalReservationStatuses = []ReservationStatus{
	ReservationCancelled,
	ReservationCompleted,
	ReservationNoShow,
}
