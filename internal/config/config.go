package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type AppConfig struct {
	// UpstreamURL is the base URL of the date-trivia service.
	UpstreamURL string `validate:"required,url"`

	// FetchTimeout bounds each upstream call.
	FetchTimeout time.Duration

	// TimeZone used by the warm-up job to decide what "today" is.
	TimeZone string         `validate:"required"`
	Location *time.Location `validate:"-"`

	// WarmInterval controls how often this week's facts are pre-fetched (0 = disabled).
	WarmInterval time.Duration

	// In-memory store staleness (0 = entries live for the process lifetime).
	StoreMaxAge time.Duration

	// Circuit breaker around the upstream.
	BreakerMaxFailures uint32 `validate:"gte=1"`
	BreakerOpenTimeout time.Duration

	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.UpstreamURL = getenvDefault("NUMBERS_API_URL", "http://numbersapi.com")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.TimeZone = getenvDefault("FACTS_TIMEZONE", "Local")
	maxFailures := getenvInt("BREAKER_MAX_FAILURES", 5)
	if maxFailures < 1 {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %d must be at least 1", maxFailures)
	}
	cfg.BreakerMaxFailures = uint32(maxFailures)

	var err error
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "0s"); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid FACTS_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints that cannot be expressed as defaults.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("invalid config: FETCH_TIMEOUT must be positive")
	}
	if c.WarmInterval < 0 || c.StoreMaxAge < 0 || c.BreakerOpenTimeout < 0 {
		return fmt.Errorf("invalid config: durations must not be negative")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
