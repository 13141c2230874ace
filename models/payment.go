package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment status constants
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
)

// Payment tracks a single gateway transaction attempt for a booking.
// A booking may accumulate several attempts over time (a failed attempt may
// be retried with a fresh row), but at most one of them is ever in a
// non-terminal state. The Reference field is the sole correlation key with
// the gateway and never changes after creation.
type Payment struct {
	gorm.Model
	PaymentID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"payment_id"`
	BookingID     uint       `gorm:"not null;index" json:"booking_id"`
	Booking       Booking    `json:"booking,omitempty"`
	Reference     string     `gorm:"uniqueIndex;not null" json:"reference"`
	TransactionID *string    `gorm:"uniqueIndex" json:"transaction_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"default:ETB" json:"currency"`
	Status        string     `gorm:"default:pending" json:"status"`
	PaymentMethod string     `json:"payment_method"`
	CheckoutURL   string     `json:"checkout_url"`
	InitiatedAt   time.Time  `json:"initiated_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	RawResponse   string     `gorm:"type:text" json:"-"`
}

// IsTerminal reports whether no further automatic transition applies.
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// BeforeCreate assigns the public payment id and initiation timestamp.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.InitiatedAt.IsZero() {
		p.InitiatedAt = time.Now()
	}
	return nil
}

// MarkCompleted transitions the payment to completed and confirms its
// booking in the same transaction. Safe to call when already completed.
func (p *Payment) MarkCompleted(tx *gorm.DB, transactionID string) error {
	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	if transactionID != "" {
		p.TransactionID = &transactionID
	}
	if err := tx.Save(p).Error; err != nil {
		return err
	}
	return tx.Model(&Booking{}).Where("id = ?", p.BookingID).
		Update("status", BookingStatusConfirmed).Error
}

// MarkFailed transitions the payment to failed and cancels its booking in
// the same transaction.
func (p *Payment) MarkFailed(tx *gorm.DB, errorMessage string) error {
	p.Status = PaymentStatusFailed
	if errorMessage != "" {
		p.ErrorMessage = errorMessage
	}
	if err := tx.Save(p).Error; err != nil {
		return err
	}
	return tx.Model(&Booking{}).Where("id = ?", p.BookingID).
		Update("status", BookingStatusCancelled).Error
}
