package routes

import (
	"github.com/travelnest/travelnest/controllers"
	"github.com/travelnest/travelnest/middleware"

	"github.com/gin-gonic/gin"
)

// initUserRoutes registers the authenticated guest-facing routes.
func initUserRoutes(router *gin.RouterGroup) {
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		// Bookings
		protected.POST("/bookings", controllers.CreateBooking)
		protected.GET("/bookings", controllers.ListBookings)
		protected.GET("/bookings/upcoming", controllers.GetUpcomingBookings)
		protected.GET("/bookings/:id", controllers.GetBookingDetails)
		protected.POST("/bookings/:id/cancel", controllers.CancelBooking)
		protected.GET("/bookings/:id/receipt", controllers.DownloadReceipt)

		// Payments
		protected.POST("/payments/initiate", controllers.InitiatePayment)
		protected.GET("/payments/:payment_id", controllers.GetPaymentStatus)
	}
}

// initHostRoutes registers the authenticated host-facing routes.
func initHostRoutes(router *gin.RouterGroup) {
	host := router.Group("/host")
	host.Use(middleware.AuthMiddleware())
	{
		host.POST("/listings", controllers.CreateListing)
		host.GET("/listings", controllers.GetMyListings)
		host.PUT("/listings/:id", controllers.UpdateListing)
		host.DELETE("/listings/:id", controllers.DeleteListing)
		host.POST("/listings/:id/toggle-availability", controllers.ToggleListingAvailability)

		host.GET("/bookings", controllers.GetHostBookings)
		host.GET("/reports/earnings", controllers.DownloadEarningsReport)
	}
}
