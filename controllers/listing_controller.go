package controllers

import (
	"strconv"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"

	"github.com/gin-gonic/gin"
)

// ListingRequest represents the create/update payload for a listing
type ListingRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	PropertyType  string  `json:"property_type" binding:"required,propertytype"`
	Location      string  `json:"location" binding:"required"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
	MaxGuests     int     `json:"max_guests" binding:"required,min=1"`
	Available     *bool   `json:"available"`
	ImageURL      string  `json:"image_url" binding:"omitempty,url"`
}

// ListingItem is the trimmed representation used in list views
type ListingItem struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	PropertyType  string  `json:"property_type"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"price_per_night"`
	MaxGuests     int     `json:"max_guests"`
	Available     bool    `json:"available"`
	ImageURL      string  `json:"image_url"`
}

// GetListings handles listing search with filters and pagination
func GetListings(c *gin.Context) {
	utils.LogInfo("GetListings called with query params: %v", c.Request.URL.Query())

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := config.DB.Model(&models.Listing{}).Where("available = ?", true)

	if location := c.Query("location"); location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+location+"%")
	}
	if propertyType := c.Query("property_type"); propertyType != "" {
		query = query.Where("property_type = ?", propertyType)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if price, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price_per_night <= ?", price)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count listings: %v", err)
		utils.InternalServerError(c, "Failed to fetch listings", nil)
		return
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&listings).Error; err != nil {
		utils.LogError("Failed to fetch listings: %v", err)
		utils.InternalServerError(c, "Failed to fetch listings", nil)
		return
	}

	items := make([]ListingItem, 0, len(listings))
	for _, l := range listings {
		items = append(items, ListingItem{
			ID:            l.ID,
			Title:         l.Title,
			PropertyType:  l.PropertyType,
			Location:      l.Location,
			PricePerNight: l.PricePerNight,
			MaxGuests:     l.MaxGuests,
			Available:     l.Available,
			ImageURL:      l.ImageURL,
		})
	}

	utils.SuccessWithPagination(c, "Listings retrieved successfully", gin.H{"listings": items}, total, page, limit)
}

// GetListingDetails returns a single listing by id
func GetListingDetails(c *gin.Context) {
	utils.LogInfo("GetListingDetails called")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid listing ID", nil)
		return
	}

	var listing models.Listing
	if err := config.DB.Preload("Host").First(&listing, id).Error; err != nil {
		utils.LogError("Listing not found: %d", id)
		utils.NotFound(c, "Listing not found")
		return
	}

	utils.Success(c, "Listing retrieved successfully", gin.H{
		"listing": listing,
		"host": gin.H{
			"id":   listing.Host.ID,
			"name": listing.Host.FullName(),
		},
	})
}

// CreateListing handles listing creation by a host
func CreateListing(c *gin.Context) {
	utils.LogInfo("CreateListing called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid listing request from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	listing := models.Listing{
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  req.PropertyType,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		Available:     available,
		ImageURL:      req.ImageURL,
		HostID:        user.ID,
	}
	if err := config.DB.Create(&listing).Error; err != nil {
		utils.LogError("Failed to create listing for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create listing", nil)
		return
	}
	utils.LogInfo("Listing %d created by host %d", listing.ID, user.ID)

	utils.Created(c, "Listing created successfully", gin.H{"listing": listing})
}

// UpdateListing handles listing updates by its host
func UpdateListing(c *gin.Context) {
	utils.LogInfo("UpdateListing called")

	user := currentUser(c)
	if user == nil {
		return
	}

	listing, ok := ownedListing(c, user)
	if !ok {
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid listing update from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{
		"title":           req.Title,
		"description":     req.Description,
		"property_type":   req.PropertyType,
		"location":        req.Location,
		"price_per_night": req.PricePerNight,
		"max_guests":      req.MaxGuests,
		"image_url":       req.ImageURL,
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}

	if err := config.DB.Model(listing).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update listing %d: %v", listing.ID, err)
		utils.InternalServerError(c, "Failed to update listing", nil)
		return
	}
	utils.LogInfo("Listing %d updated by host %d", listing.ID, user.ID)

	utils.Success(c, "Listing updated successfully", gin.H{"listing": listing})
}

// DeleteListing handles listing removal by its host
func DeleteListing(c *gin.Context) {
	utils.LogInfo("DeleteListing called")

	user := currentUser(c)
	if user == nil {
		return
	}

	listing, ok := ownedListing(c, user)
	if !ok {
		return
	}

	// Listings with bookings that are still pending or confirmed cannot be
	// removed out from under the guests.
	var active int64
	config.DB.Model(&models.Booking{}).
		Where("listing_id = ? AND status IN ?", listing.ID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&active)
	if active > 0 {
		utils.LogError("Listing %d has %d active bookings, refusing delete", listing.ID, active)
		utils.Conflict(c, "Listing has active bookings", nil)
		return
	}

	if err := config.DB.Delete(listing).Error; err != nil {
		utils.LogError("Failed to delete listing %d: %v", listing.ID, err)
		utils.InternalServerError(c, "Failed to delete listing", nil)
		return
	}
	utils.LogInfo("Listing %d deleted by host %d", listing.ID, user.ID)

	utils.Success(c, "Listing deleted successfully", nil)
}

// GetMyListings returns the authenticated host's listings
func GetMyListings(c *gin.Context) {
	utils.LogInfo("GetMyListings called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var listings []models.Listing
	if err := config.DB.Where("host_id = ?", user.ID).
		Order("created_at DESC").Find(&listings).Error; err != nil {
		utils.LogError("Failed to fetch listings for host %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch listings", nil)
		return
	}

	utils.Success(c, "Listings retrieved successfully", gin.H{"listings": listings})
}

// ToggleListingAvailability flips a listing's availability flag
func ToggleListingAvailability(c *gin.Context) {
	utils.LogInfo("ToggleListingAvailability called")

	user := currentUser(c)
	if user == nil {
		return
	}

	listing, ok := ownedListing(c, user)
	if !ok {
		return
	}

	// Capture before the update: gorm writes the new value back into the
	// struct, which would invert the reported state.
	available := !listing.Available
	if err := config.DB.Model(listing).Update("available", available).Error; err != nil {
		utils.LogError("Failed to toggle availability for listing %d: %v", listing.ID, err)
		utils.InternalServerError(c, "Failed to update listing", nil)
		return
	}
	utils.LogInfo("Listing %d availability set to %t", listing.ID, available)

	utils.Success(c, "Listing availability updated", gin.H{
		"listing_id": listing.ID,
		"available":  available,
	})
}

// currentUser pulls the authenticated user placed in context by the auth
// middleware, replying 401 when absent.
func currentUser(c *gin.Context) *models.User {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return nil
	}
	user := userVal.(models.User)
	return &user
}

// ownedListing loads the listing in the id path param and checks the caller
// owns it.
func ownedListing(c *gin.Context, user *models.User) (*models.Listing, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid listing ID", nil)
		return nil, false
	}

	var listing models.Listing
	if err := config.DB.Where("id = ? AND host_id = ?", id, user.ID).First(&listing).Error; err != nil {
		utils.LogError("Listing %d not found for host %d", id, user.ID)
		utils.NotFound(c, "Listing not found")
		return nil, false
	}
	return &listing, true
}
