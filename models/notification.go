package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds
const (
	NotificationKindBooking = "booking_confirmation"
	NotificationKindPayment = "payment_confirmation"
)

// Notification delivery states
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// Notification is a durable email delivery job. Rows are written on the
// request path and picked up by the worker pool, so a crash between enqueue
// and delivery loses nothing.
type Notification struct {
	gorm.Model
	BookingID     uint      `gorm:"not null;index" json:"booking_id"`
	BookingRef    string    `json:"booking_ref"`
	Kind          string    `gorm:"not null" json:"kind"`
	RecipientName string    `json:"recipient_name"`
	Recipient     string    `gorm:"not null" json:"recipient"`
	ListingTitle  string    `json:"listing_title"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Status        string    `gorm:"default:pending;index" json:"status"`
	Attempts      int       `gorm:"default:0" json:"attempts"`
	NextAttemptAt time.Time `gorm:"index" json:"next_attempt_at"`
	LastError     string    `json:"last_error,omitempty"`
}
