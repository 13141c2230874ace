package routes

import (
	"github.com/travelnest/travelnest/controllers"
	"github.com/travelnest/travelnest/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes.
// The middleware chain must be installed before the route groups or gin
// will not apply it to them.
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	api := router.Group("/v1")
	{
		initPublicRoutes(api)
		initUserRoutes(api)
		initHostRoutes(api)
	}

	return router
}

// initPublicRoutes registers routes that require no authentication.
func initPublicRoutes(router *gin.RouterGroup) {
	router.POST("/register", controllers.RegisterUser)
	router.POST("/login", controllers.LoginUser)

	// Listings are browsable without an account
	router.GET("/listings", controllers.GetListings)
	router.GET("/listings/:id", controllers.GetListingDetails)

	// Payment verification must stay public: the gateway calls it back
	// without credentials, keyed only by the payment reference.
	router.GET("/payments/verify", controllers.VerifyPayment)
	router.POST("/payments/verify", controllers.VerifyPayment)
}
