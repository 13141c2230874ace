package controllers

import (
	"time"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"
	"github.com/travelnest/travelnest/workers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingRequest represents the booking creation payload. Dates arrive as
// YYYY-MM-DD strings.
type BookingRequest struct {
	ListingID      uint   `json:"listing_id" binding:"required"`
	CheckIn        string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut       string `json:"check_out" binding:"required,datetime=2006-01-02"`
	NumberOfGuests int    `json:"number_of_guests" binding:"required,min=1"`
}

// CreateBooking handles booking creation and queues the confirmation email
func CreateBooking(c *gin.Context) {
	utils.LogInfo("CreateBooking called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid booking request from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	checkIn, _ := time.Parse("2006-01-02", req.CheckIn)
	checkOut, _ := time.Parse("2006-01-02", req.CheckOut)
	if !checkOut.After(checkIn) {
		utils.LogError("Invalid date range from user %d: %s to %s", user.ID, req.CheckIn, req.CheckOut)
		utils.BadRequest(c, "Check-out must be after check-in", nil)
		return
	}

	var listing models.Listing
	if err := config.DB.First(&listing, req.ListingID).Error; err != nil {
		utils.LogError("Listing %d not found for booking", req.ListingID)
		utils.NotFound(c, "Listing not found")
		return
	}

	if !listing.Available {
		utils.LogError("Booking attempted on unavailable listing %d", listing.ID)
		utils.BadRequest(c, "Listing is not available", nil)
		return
	}
	if req.NumberOfGuests > listing.MaxGuests {
		utils.LogError("Booking for %d guests exceeds listing %d capacity of %d",
			req.NumberOfGuests, listing.ID, listing.MaxGuests)
		utils.BadRequest(c, "Guest count exceeds listing capacity", gin.H{"max_guests": listing.MaxGuests})
		return
	}

	booking := models.Booking{
		UserID:         user.ID,
		ListingID:      listing.ID,
		Listing:        listing,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		NumberOfGuests: req.NumberOfGuests,
		Status:         models.BookingStatusPending,
	}
	if err := config.DB.Omit("Listing").Create(&booking).Error; err != nil {
		utils.LogError("Failed to create booking for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create booking", nil)
		return
	}
	utils.LogInfo("Booking %s created by user %d for listing %d, total %.2f",
		booking.BookingID, user.ID, listing.ID, booking.TotalPrice)

	if notifier != nil {
		err := notifier.Enqueue(workers.EnqueueInput{
			BookingID:     booking.ID,
			BookingRef:    booking.BookingID.String(),
			Kind:          models.NotificationKindBooking,
			Recipient:     user.Email,
			RecipientName: user.FullName(),
			ListingTitle:  listing.Title,
			CheckIn:       booking.CheckIn,
			CheckOut:      booking.CheckOut,
		})
		if err != nil {
			// The booking itself succeeded; delivery is best effort here.
			utils.LogError("Failed to enqueue booking confirmation for %s: %v", booking.BookingID, err)
		}
	}

	utils.Created(c, "Booking created successfully! Confirmation email will be sent shortly.", gin.H{
		"booking": bookingResponse(&booking, &listing),
	})
}

// ListBookings returns the authenticated user's bookings
func ListBookings(c *gin.Context) {
	utils.LogInfo("ListBookings called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var bookings []models.Booking
	if err := config.DB.Preload("Listing").Where("user_id = ?", user.ID).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch bookings for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch bookings", nil)
		return
	}

	items := make([]gin.H, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookingResponse(&bookings[i], &bookings[i].Listing))
	}

	utils.Success(c, "Bookings retrieved successfully", gin.H{"bookings": items})
}

// GetBookingDetails returns one of the user's bookings by public id
func GetBookingDetails(c *gin.Context) {
	utils.LogInfo("GetBookingDetails called")

	user := currentUser(c)
	if user == nil {
		return
	}

	booking, ok := ownedBooking(c, user)
	if !ok {
		return
	}

	var payments []models.Payment
	config.DB.Where("booking_id = ?", booking.ID).Order("initiated_at DESC").Find(&payments)

	utils.Success(c, "Booking retrieved successfully", gin.H{
		"booking":  bookingResponse(booking, &booking.Listing),
		"payments": payments,
	})
}

// GetUpcomingBookings returns the user's future bookings
func GetUpcomingBookings(c *gin.Context) {
	utils.LogInfo("GetUpcomingBookings called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var bookings []models.Booking
	if err := config.DB.Preload("Listing").
		Where("user_id = ? AND check_in >= ? AND status IN ?", user.ID, time.Now(),
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Order("check_in").Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch upcoming bookings for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch bookings", nil)
		return
	}

	items := make([]gin.H, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookingResponse(&bookings[i], &bookings[i].Listing))
	}

	utils.Success(c, "Upcoming bookings retrieved successfully", gin.H{"bookings": items})
}

// CancelBooking cancels one of the user's bookings
func CancelBooking(c *gin.Context) {
	utils.LogInfo("CancelBooking called")

	user := currentUser(c)
	if user == nil {
		return
	}

	booking, ok := ownedBooking(c, user)
	if !ok {
		return
	}

	switch booking.Status {
	case models.BookingStatusCancelled:
		utils.Success(c, "Booking is already cancelled", gin.H{"booking_id": booking.BookingID})
		return
	case models.BookingStatusCompleted:
		utils.LogError("Cancel attempted on completed booking %s", booking.BookingID)
		utils.Conflict(c, "Completed bookings cannot be cancelled", nil)
		return
	}

	var inFlight int64
	config.DB.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.PaymentStatusProcessing).
		Count(&inFlight)
	if inFlight > 0 {
		utils.LogError("Cancel attempted on booking %s with payment in flight", booking.BookingID)
		utils.Conflict(c, "A payment is in progress for this booking; verify it first", nil)
		return
	}

	if err := config.DB.Model(booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
		utils.LogError("Failed to cancel booking %s: %v", booking.BookingID, err)
		utils.InternalServerError(c, "Failed to cancel booking", nil)
		return
	}
	utils.LogInfo("Booking %s cancelled by user %d", booking.BookingID, user.ID)

	utils.Success(c, "Booking cancelled successfully", gin.H{"booking_id": booking.BookingID})
}

// GetHostBookings returns bookings made on the host's listings
func GetHostBookings(c *gin.Context) {
	utils.LogInfo("GetHostBookings called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var bookings []models.Booking
	if err := config.DB.Preload("Listing").Preload("User").
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.host_id = ?", user.ID).
		Order("bookings.created_at DESC").Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch host bookings for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch bookings", nil)
		return
	}

	items := make([]gin.H, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		item := bookingResponse(b, &b.Listing)
		item["guest"] = gin.H{"name": b.User.FullName(), "email": b.User.Email}
		items = append(items, item)
	}

	utils.Success(c, "Bookings retrieved successfully", gin.H{"bookings": items})
}

// ownedBooking loads the booking in the id path param (public UUID) and
// checks it belongs to the caller.
func ownedBooking(c *gin.Context, user *models.User) (*models.Booking, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid booking ID", nil)
		return nil, false
	}

	var booking models.Booking
	if err := config.DB.Preload("Listing").
		Where("booking_id = ? AND user_id = ?", bookingID, user.ID).
		First(&booking).Error; err != nil {
		utils.LogError("Booking %s not found for user %d", bookingID, user.ID)
		utils.NotFound(c, "Booking not found")
		return nil, false
	}
	return &booking, true
}

func bookingResponse(booking *models.Booking, listing *models.Listing) gin.H {
	return gin.H{
		"booking_id":       booking.BookingID,
		"listing_id":       booking.ListingID,
		"listing_title":    listing.Title,
		"location":         listing.Location,
		"check_in":         booking.CheckIn.Format("2006-01-02"),
		"check_out":        booking.CheckOut.Format("2006-01-02"),
		"nights":           booking.Nights(),
		"number_of_guests": booking.NumberOfGuests,
		"total_price":      booking.TotalPrice,
		"status":           booking.Status,
	}
}
