package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Strava
	StravaClientID     string
	StravaClientSecret string
	StravaAuthURL      string
	StravaTokenURL     string
	StravaAPIURL       string
	StravaHTTPTimeout  time.Duration
	SyncLookback       time.Duration

	// Payment
	StripeSecretKey     string
	StripeWebhookSecret string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "GoalGuard"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for OAuth redirects
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/goalguard.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Strava
		StravaClientID:     envString("STRAVA_CLIENT_ID", ""),
		StravaClientSecret: envString("STRAVA_CLIENT_SECRET", ""),
		StravaAuthURL:      envString("STRAVA_AUTH_URL", "https://www.strava.com/oauth/authorize"),
		StravaTokenURL:     envString("STRAVA_TOKEN_URL", "https://www.strava.com/oauth/token"),
		StravaAPIURL:       envString("STRAVA_API_URL", "https://www.strava.com/api/v3"),
		StravaHTTPTimeout:  envDuration("STRAVA_HTTP_TIMEOUT", 10*time.Second),
		SyncLookback:       envDuration("SYNC_LOOKBACK", 90*24*time.Hour), // 90 days

		// Payment
		StripeSecretKey:     envString("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for
// production deployments. Development allows Strava and Stripe to stay
// unconfigured for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		slog.Error("production deployment requires STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET",
			"hint", "set APP_ENV=development for local testing without payments")
		os.Exit(1)
	}
	if cfg.StravaClientID == "" || cfg.StravaClientSecret == "" {
		slog.Error("production deployment requires STRAVA_CLIENT_ID and STRAVA_CLIENT_SECRET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded, so the copy is safe to place in
// request contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		StravaClientID: c.StravaClientID,
		StravaAuthURL:  c.StravaAuthURL,
	}
}
