package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds the service configuration, loaded from the environment.
type Config struct {
	Port        string
	CORSOrigins []string

	MongoURI string
	MongoDB  string

	// Provider names resolved through the llm registry; the secondary
	// one is optional.
	PrimaryProvider   string
	SecondaryProvider string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	SecureCookies      bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	CloudinaryBaseURL      string

	RetentionSweepEnabled bool
	RetentionSchedule     string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnvOrDefault("MONGO_DB", "vocintera"),

		PrimaryProvider:   getEnvOrDefault("AI_PROVIDER", "gemini"),
		SecondaryProvider: getEnvOrDefault("AI_FALLBACK_PROVIDER", "openrouter"),

		AccessTokenSecret:  getEnvOrDefault("ACCESS_TOKEN_SECRET", "dev"),
		RefreshTokenSecret: getEnvOrDefault("REFRESH_TOKEN_SECRET", "dev"),
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),
		SecureCookies:      getEnvOrDefault("SECURE_COOKIES", "false") == "true",

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnvOrDefault("GOOGLE_REDIRECT_URL", "postmessage"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		CloudinaryBaseURL:      getEnvOrDefault("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),

		RetentionSweepEnabled: getEnvOrDefault("RETENTION_SWEEP_ENABLED", "true") == "true",
		RetentionSchedule:     getEnvOrDefault("RETENTION_SWEEP_SCHEDULE", "0 3 * * *"),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.MongoURI == "" {
		return errors.New("MONGO_URI environment variable is required")
	}
	if config.PrimaryProvider == "" {
		return errors.New("AI_PROVIDER must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
