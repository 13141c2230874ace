package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking represents a reservation of a listing for a date range.
type Booking struct {
	gorm.Model
	BookingID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ListingID      uint      `gorm:"not null;index" json:"listing_id"`
	Listing        Listing   `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	CheckIn        time.Time `gorm:"not null" json:"check_in"`
	CheckOut       time.Time `gorm:"not null" json:"check_out"`
	NumberOfGuests int       `gorm:"not null" json:"number_of_guests"`
	TotalPrice     float64   `json:"total_price"`
	Status         string    `gorm:"default:pending" json:"status"`

	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID;references:ID"`
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// CalculateTotalPrice computes nightly price x nights from the associated
// listing. The Listing association must be loaded.
func (b *Booking) CalculateTotalPrice() float64 {
	nights := b.Nights()
	if nights <= 0 {
		return 0
	}
	return b.Listing.PricePerNight * float64(nights)
}

// BeforeCreate assigns the public booking id and the total price. The price
// is computed once here when the caller has not set it; it is never
// recomputed automatically after creation.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}
	if b.TotalPrice == 0 {
		b.TotalPrice = b.CalculateTotalPrice()
	}
	return nil
}
