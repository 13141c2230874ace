package models

import (
	"gorm.io/gorm"
)

// Property type constants
const (
	PropertyTypeHotel     = "hotel"
	PropertyTypeApartment = "apartment"
	PropertyTypeVilla     = "villa"
	PropertyTypeResort    = "resort"
	PropertyTypeHostel    = "hostel"
)

// PropertyTypes lists the accepted property types for validation.
var PropertyTypes = []string{
	PropertyTypeHotel,
	PropertyTypeApartment,
	PropertyTypeVilla,
	PropertyTypeResort,
	PropertyTypeHostel,
}

// Listing represents a bookable travel property owned by a host.
type Listing struct {
	gorm.Model
	Title         string  `gorm:"not null" json:"title"`
	Description   string  `json:"description"`
	PropertyType  string  `gorm:"not null" json:"property_type"`
	Location      string  `gorm:"not null;index" json:"location"`
	PricePerNight float64 `gorm:"not null" json:"price_per_night"`
	MaxGuests     int     `gorm:"default:1" json:"max_guests"`
	Available     bool    `json:"available"`
	ImageURL      string  `json:"image_url"`
	HostID        uint    `gorm:"not null;index" json:"host_id"`
	Host          User    `json:"host,omitempty" gorm:"foreignKey:HostID"`

	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:ListingID"`
}
