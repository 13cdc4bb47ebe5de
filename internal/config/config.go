package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort           int
	DatabasePath         string
	FrontendOrigin       string
	AdminEmail           string
	AdminPassword        string
	CuratorSchedule      string // cron expression for the featured-project curator
	CuratorLikeThreshold int
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	threshold, err := strconv.Atoi(getEnv("CURATOR_LIKE_THRESHOLD", "25"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:           port,
		DatabasePath:         getEnv("DATABASE_PATH", "./artcampus.db"),
		FrontendOrigin:       getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		AdminEmail:           getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "changeme"),
		CuratorSchedule:      getEnv("CURATOR_SCHEDULE", "0 * * * *"),
		CuratorLikeThreshold: threshold,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
