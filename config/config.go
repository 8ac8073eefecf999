package config

import (
	"fmt"
	"time"

	"rental-booking/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// App holds every setting the service reads from the environment.
type App struct {
	Host     string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port     string `envconfig:"APP_PORT" default:"8080"`
	Timezone string `envconfig:"APP_TIMEZONE" default:"Africa/Kinshasa"`

	FrontendURL string `envconfig:"FRONTEND_URL" default:"*"`

	// DB
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBDatabase string `envconfig:"DB_DATABASE" required:"true"`
	DBUsername string `envconfig:"DB_USERNAME" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Redis is optional; without it room locks stay in-process.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RoomLockTTL   time.Duration `envconfig:"ROOM_LOCK_TTL" default:"30s"`

	// JWT
	PublicKeyURL string `envconfig:"PUBLIC_KEY_URL"`

	// Receipt parser
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	PaymentEpsilon string `envconfig:"PAYMENT_EPSILON" default:"0.01"`
}

// Load reads .env (when present) and the process environment into App.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file loaded, using process environment")
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return c, err
	}
	if _, err := c.Epsilon(); err != nil {
		return c, err
	}
	return c, nil
}

// Location resolves the business timezone that defines "today".
func (c App) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Epsilon is the tolerance used when classifying a balance as paid.
func (c App) Epsilon() (decimal.Decimal, error) {
	eps, err := decimal.NewFromString(c.PaymentEpsilon)
	if err != nil || eps.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid PAYMENT_EPSILON %q", c.PaymentEpsilon)
	}
	return eps, nil
}

// DSN builds the PostgreSQL connection string.
func (c App) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUsername, c.DBPassword, c.DBDatabase, c.DBSSLMode)
}

// Addr is the listen address for the HTTP server.
func (c App) Addr() string {
	return c.Host + ":" + c.Port
}
