package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	// Payment gateway credentials. Injected into the gateway client
	// constructor; never read from the environment past startup.
	ChapaSecretKey   string
	ChapaBaseURL     string
	ChapaCallbackURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// A missing .env file is fine in production where the environment is
	// set by the process manager.
	_ = godotenv.Load()

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		ChapaSecretKey:   os.Getenv("CHAPA_SECRET_KEY"),
		ChapaBaseURL:     os.Getenv("CHAPA_BASE_URL"),
		ChapaCallbackURL: os.Getenv("CHAPA_CALLBACK_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %v", port, err)
		}
		config.SMTPPort = p
	} else {
		config.SMTPPort = 587
	}

	if config.ChapaBaseURL == "" {
		config.ChapaBaseURL = "https://api.chapa.co/v1"
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	return config, nil
}
