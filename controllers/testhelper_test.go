// Tests live in an external package: the handlers are exercised through
// routes.SetupRouter, and routes imports controllers.
package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/controllers"
	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/routes"
	"github.com/travelnest/travelnest/utils"
	"github.com/travelnest/travelnest/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
}

// setupTest opens a fresh in-memory database, installs it as the global
// connection and returns the router. The notifier is wired but not started,
// so queued notifications stay in the table for assertions.
func setupTest(t *testing.T) (*gin.Engine, *workers.Notifier) {
	t.Helper()

	name := fmt.Sprintf("file:test%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	config.DB = db

	notifier := workers.NewNotifier(db)
	controllers.InitPaymentController(nil, notifier)

	return routes.SetupRouter(), notifier
}

func createTestUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  "User",
		Phone:     "+251911234567",
	}
	if err := config.DB.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return user, token
}

func createTestListing(t *testing.T, hostID uint, pricePerNight float64) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		Title:         "Lakeside Apartment",
		Description:   "Two bedrooms overlooking the lake",
		PropertyType:  models.PropertyTypeApartment,
		Location:      "Bahir Dar",
		PricePerNight: pricePerNight,
		MaxGuests:     4,
		Available:     true,
		HostID:        hostID,
	}
	if err := config.DB.Create(listing).Error; err != nil {
		t.Fatalf("Failed to create test listing: %v", err)
	}
	return listing
}

func createTestBooking(t *testing.T, userID uint, listing *models.Listing, nights int) *models.Booking {
	t.Helper()

	checkIn := time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	booking := &models.Booking{
		UserID:         userID,
		ListingID:      listing.ID,
		Listing:        *listing,
		CheckIn:        checkIn,
		CheckOut:       checkIn.AddDate(0, 0, nights),
		NumberOfGuests: 2,
		Status:         models.BookingStatusPending,
	}
	if err := config.DB.Omit("Listing").Create(booking).Error; err != nil {
		t.Fatalf("Failed to create test booking: %v", err)
	}
	return booking
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body
}
