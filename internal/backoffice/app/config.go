package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer string // Issuer claim for both token types (default: lumen-backoffice)

	AccessTokenSecret  string // Required: HS256 secret for access tokens
	RefreshTokenSecret string // Required: HS256 secret for refresh tokens; must differ from access
	RefreshTokenTTL    time.Duration

	GoogleClientID     string // Optional: enables the Google login variant when set
	GoogleClientSecret string
	GoogleRedirectURL  string // This service's /v1/auth/google/callback URL

	ClientCallbackURL string // Front-end route receiving tokens after provider login
	ClientLoginURL    string // Front-end login page; receives ?error= on provider failure

	BootstrapAdminEmail    string // Optional: seed an administrator when the user table is empty
	BootstrapAdminPassword string

	DatabaseFile         string
	Env                  string
	LogLevel             string
	LogFormat            string
	Port                 int
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

// LoadConfig reads configuration from the environment, with a best-effort
// .env load first for local development.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Issuer:             getEnvOrDefault("BACKOFFICE_ISSUER", "lumen-backoffice"),
		AccessTokenSecret:  os.Getenv("BACKOFFICE_ACCESS_SECRET"),
		RefreshTokenSecret: os.Getenv("BACKOFFICE_REFRESH_SECRET"),
		RefreshTokenTTL:    getEnvDurationOrDefault("BACKOFFICE_REFRESH_TTL", 7*24*time.Hour),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		ClientCallbackURL: getEnvOrDefault("CLIENT_CALLBACK_URL", "http://localhost:3000/auth/callback"),
		ClientLoginURL:    getEnvOrDefault("CLIENT_LOGIN_URL", "http://localhost:3000/login"),

		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),

		DatabaseFile:         getEnvOrDefault("BACKOFFICE_DATABASE_FILE", "backoffice.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return Config{}, errors.New("BACKOFFICE_ACCESS_SECRET and BACKOFFICE_REFRESH_SECRET are required")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return Config{}, errors.New("access and refresh token secrets must differ")
	}

	return cfg, nil
}

// GoogleEnabled reports whether the provider login flow is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer minutes, for operators who think in minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
