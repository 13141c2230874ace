package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user. A user may act both as a guest
// (making bookings) and as a host (owning listings).
type User struct {
	gorm.Model
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	LastLoginAt time.Time `json:"last_login_at"`

	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:HostID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
}

// FullName returns the user's display name, falling back to the email
// when no name was provided.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
