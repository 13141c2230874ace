package utils

import (
	"time"

	"github.com/travelnest/travelnest/models"

	"gorm.io/gorm"
)

// SeedDatabase populates the database with sample hosts, guests, listings
// and bookings for local development. It is a no-op when users already
// exist.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		LogInfo("Seed skipped: database already has %d users", count)
		return nil
	}

	LogInfo("Seeding database with sample data")

	password, err := HashPassword("password123")
	if err != nil {
		return err
	}

	host1 := models.User{Email: "host1@example.com", Password: password, FirstName: "John", LastName: "Doe", Phone: "+251911000001"}
	host2 := models.User{Email: "host2@example.com", Password: password, FirstName: "Jane", LastName: "Smith", Phone: "+251911000002"}
	guest1 := models.User{Email: "guest1@example.com", Password: password, FirstName: "Alice", LastName: "Johnson", Phone: "+251911000003"}
	guest2 := models.User{Email: "guest2@example.com", Password: password, FirstName: "Bob", LastName: "Williams", Phone: "+251911000004"}

	for _, u := range []*models.User{&host1, &host2, &guest1, &guest2} {
		if err := db.Create(u).Error; err != nil {
			return err
		}
	}

	listings := []models.Listing{
		{
			Title:         "Cozy Lakeside Apartment",
			Description:   "A quiet two-bedroom apartment overlooking the lake.",
			PropertyType:  models.PropertyTypeApartment,
			Location:      "Bahir Dar",
			PricePerNight: 200.00,
			MaxGuests:     4,
			Available:     true,
			HostID:        host1.ID,
		},
		{
			Title:         "Downtown Boutique Hotel Room",
			Description:   "Modern room in the heart of the city, breakfast included.",
			PropertyType:  models.PropertyTypeHotel,
			Location:      "Addis Ababa",
			PricePerNight: 350.00,
			MaxGuests:     2,
			Available:     true,
			HostID:        host1.ID,
		},
		{
			Title:         "Hillside Villa with Garden",
			Description:   "Spacious villa with a private garden and mountain views.",
			PropertyType:  models.PropertyTypeVilla,
			Location:      "Lalibela",
			PricePerNight: 500.00,
			MaxGuests:     8,
			Available:     true,
			HostID:        host2.ID,
		},
		{
			Title:         "Backpacker Hostel Bunk",
			Description:   "Budget-friendly shared room near the bus station.",
			PropertyType:  models.PropertyTypeHostel,
			Location:      "Gondar",
			PricePerNight: 50.00,
			MaxGuests:     1,
			Available:     false,
			HostID:        host2.ID,
		},
	}

	for i := range listings {
		if err := db.Create(&listings[i]).Error; err != nil {
			return err
		}
	}

	checkIn := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	booking := models.Booking{
		UserID:         guest1.ID,
		ListingID:      listings[0].ID,
		CheckIn:        checkIn,
		CheckOut:       checkIn.AddDate(0, 0, 3),
		NumberOfGuests: 2,
		TotalPrice:     listings[0].PricePerNight * 3,
		Status:         models.BookingStatusPending,
	}
	if err := db.Create(&booking).Error; err != nil {
		return err
	}

	LogInfo("Seeded %d users, %d listings, 1 booking", 4, len(listings))
	return nil
}
