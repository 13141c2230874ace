package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingBody(listingID uint, checkIn, checkOut time.Time, guests int) map[string]interface{} {
	return map[string]interface{}{
		"listing_id":       listingID,
		"check_in":         checkIn.Format("2006-01-02"),
		"check_out":        checkOut.Format("2006-01-02"),
		"number_of_guests": guests,
	}
}

func TestCreateBookingComputesTotalPrice(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)

	checkIn := time.Now().AddDate(0, 0, 7)
	w := doRequest(t, router, http.MethodPost, "/v1/user/bookings", token,
		bookingBody(listing.ID, checkIn, checkIn.AddDate(0, 0, 3), 2))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	booking := body["data"].(map[string]interface{})["booking"].(map[string]interface{})
	assert.Equal(t, 600.00, booking["total_price"])
	assert.Equal(t, 3.0, booking["nights"])
	assert.Equal(t, models.BookingStatusPending, booking["status"])

	var stored models.Booking
	require.NoError(t, config.DB.First(&stored).Error)
	assert.Equal(t, 600.00, stored.TotalPrice)

	// A booking confirmation is queued durably at creation time.
	var notifications []models.Notification
	require.NoError(t, config.DB.Where("kind = ?", models.NotificationKindBooking).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, user.Email, notifications[0].Recipient)
	assert.Equal(t, models.NotificationStatusPending, notifications[0].Status)
}

func TestCreateBookingRejectsInvertedDates(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)

	checkIn := time.Now().AddDate(0, 0, 7)
	w := doRequest(t, router, http.MethodPost, "/v1/user/bookings", token,
		bookingBody(listing.ID, checkIn, checkIn.AddDate(0, 0, -2), 2))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Zero nights is just as invalid as a negative range.
	w = doRequest(t, router, http.MethodPost, "/v1/user/bookings", token,
		bookingBody(listing.ID, checkIn, checkIn, 2))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	config.DB.Model(&models.Booking{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateBookingUnavailableListing(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)
	require.NoError(t, config.DB.Model(listing).Update("available", false).Error)

	checkIn := time.Now().AddDate(0, 0, 7)
	w := doRequest(t, router, http.MethodPost, "/v1/user/bookings", token,
		bookingBody(listing.ID, checkIn, checkIn.AddDate(0, 0, 3), 2))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingGuestCapacity(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00) // MaxGuests: 4

	checkIn := time.Now().AddDate(0, 0, 7)
	w := doRequest(t, router, http.MethodPost, "/v1/user/bookings", token,
		bookingBody(listing.ID, checkIn, checkIn.AddDate(0, 0, 3), 5))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingListingNotFound(t *testing.T) {
	router, _ := setupTest(t)

	_, token := createTestUser(t, "guest@example.com")

	checkIn := time.Now().AddDate(0, 0, 7)
	w := doRequest(t, router, http.MethodPost, "/v1/user/bookings", token,
		bookingBody(9999, checkIn, checkIn.AddDate(0, 0, 3), 2))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	router, _ := setupTest(t)

	checkIn := time.Now().AddDate(0, 0, 7)
	w := doRequest(t, router, http.MethodPost, "/v1/user/bookings", "",
		bookingBody(1, checkIn, checkIn.AddDate(0, 0, 3), 2))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetBookingDetailsIncludesPayments(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)
	booking := createTestBooking(t, user.ID, listing, 3)

	payment := models.Payment{
		BookingID: booking.ID,
		Reference: "TRV-TESTPAY00001",
		Amount:    booking.TotalPrice,
		Currency:  "ETB",
		Status:    models.PaymentStatusFailed,
	}
	require.NoError(t, config.DB.Create(&payment).Error)

	w := doRequest(t, router, http.MethodGet, "/v1/user/bookings/"+booking.BookingID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	payments := data["payments"].([]interface{})
	require.Len(t, payments, 1)
	assert.Equal(t, "TRV-TESTPAY00001", payments[0].(map[string]interface{})["reference"])
}

func TestGetBookingDetailsForeignBooking(t *testing.T) {
	router, _ := setupTest(t)

	owner, _ := createTestUser(t, "owner@example.com")
	_, token := createTestUser(t, "other@example.com")
	listing := createTestListing(t, owner.ID+100, 200.00)
	booking := createTestBooking(t, owner.ID, listing, 3)

	w := doRequest(t, router, http.MethodGet, "/v1/user/bookings/"+booking.BookingID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUpcomingBookingsFiltersPast(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)

	upcoming := createTestBooking(t, user.ID, listing, 3)

	past := models.Booking{
		UserID:         user.ID,
		ListingID:      listing.ID,
		CheckIn:        time.Now().AddDate(0, 0, -10),
		CheckOut:       time.Now().AddDate(0, 0, -7),
		NumberOfGuests: 2,
		TotalPrice:     600,
		Status:         models.BookingStatusCompleted,
	}
	require.NoError(t, config.DB.Create(&past).Error)

	w := doRequest(t, router, http.MethodGet, "/v1/user/bookings/upcoming", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	bookings := body["data"].(map[string]interface{})["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	assert.Equal(t, upcoming.BookingID.String(), bookings[0].(map[string]interface{})["booking_id"])
}

func TestCancelBookingIsIdempotent(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)
	booking := createTestBooking(t, user.ID, listing, 3)

	path := "/v1/user/bookings/" + booking.BookingID.String() + "/cancel"

	w := doRequest(t, router, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Booking
	require.NoError(t, config.DB.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, updated.Status)
}

func TestCancelBookingCompletedConflict(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)
	booking := createTestBooking(t, user.ID, listing, 3)
	require.NoError(t, config.DB.Model(booking).Update("status", models.BookingStatusCompleted).Error)

	w := doRequest(t, router, http.MethodPost,
		"/v1/user/bookings/"+booking.BookingID.String()+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelBookingBlockedByInFlightPayment(t *testing.T) {
	router, _ := setupTest(t)

	user, token := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, user.ID+100, 200.00)
	booking := createTestBooking(t, user.ID, listing, 3)

	payment := models.Payment{
		BookingID: booking.ID,
		Reference: "TRV-INFLIGHT0001",
		Amount:    booking.TotalPrice,
		Currency:  "ETB",
		Status:    models.PaymentStatusProcessing,
	}
	require.NoError(t, config.DB.Create(&payment).Error)

	w := doRequest(t, router, http.MethodPost,
		"/v1/user/bookings/"+booking.BookingID.String()+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var updated models.Booking
	require.NoError(t, config.DB.First(&updated, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, updated.Status)
}

func TestGetHostBookings(t *testing.T) {
	router, _ := setupTest(t)

	host, hostToken := createTestUser(t, "host@example.com")
	guest, _ := createTestUser(t, "guest@example.com")
	listing := createTestListing(t, host.ID, 200.00)
	createTestBooking(t, guest.ID, listing, 3)

	w := doRequest(t, router, http.MethodGet, "/v1/host/bookings", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	bookings := body["data"].(map[string]interface{})["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	item := bookings[0].(map[string]interface{})
	assert.Equal(t, 600.00, item["total_price"])
	guestInfo := item["guest"].(map[string]interface{})
	assert.Equal(t, "guest@example.com", guestInfo["email"])
}
