package main

import (
	"log"
	"os"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/controllers"
	"github.com/travelnest/travelnest/gateway"
	"github.com/travelnest/travelnest/routes"
	"github.com/travelnest/travelnest/utils"
	"github.com/travelnest/travelnest/workers"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Seed sample data when requested
	if os.Getenv("SEED_DB") == "true" {
		if err := utils.SeedDatabase(config.DB); err != nil {
			utils.LogError("Failed to seed database: %v", err)
			log.Fatal("Failed to seed database:", err)
		}
	}

	// Register custom request validators
	if err := utils.RegisterValidators(); err != nil {
		utils.LogError("Failed to register validators: %v", err)
		log.Fatal("Failed to register validators:", err)
	}

	// Payment gateway client, configured explicitly rather than via globals
	gatewayClient := gateway.NewClient(gateway.Config{
		SecretKey:   cfg.ChapaSecretKey,
		BaseURL:     cfg.ChapaBaseURL,
		CallbackURL: cfg.ChapaCallbackURL,
	})

	// Notification worker pool and maintenance scheduler
	notifier := workers.NewNotifier(config.DB)
	notifier.Start(2)
	defer notifier.Stop()

	scheduler := workers.NewScheduler(config.DB, notifier)
	if err := scheduler.Start(); err != nil {
		utils.LogError("Failed to start scheduler: %v", err)
		log.Fatal("Failed to start scheduler:", err)
	}
	defer scheduler.Stop()

	controllers.InitPaymentController(gatewayClient, notifier)

	// Set up router with the middleware chain
	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	// Start server
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
