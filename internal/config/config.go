package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigError represents a missing or invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

const (
	ProviderOSRM   = "osrm"
	ProviderGoogle = "google"
)

type PricingConfig struct {
	Currency    string
	BaseFare    float64
	PricePerKm  float64
	MinimumFare float64
}

type RoutingConfig struct {
	Provider       string
	NominatimURL   string
	OSRMBaseURL    string
	UserAgent      string
	GeocodeTimeout time.Duration
	RouteTimeout   time.Duration
	GoogleAPIKey   string
	GoogleLanguage string
	GoogleRegion   string
	CacheMaxAge    time.Duration
}

// Config holds all runtime configuration loaded from environment variables.
// It is built once at startup and passed by value to the components that need it.
type Config struct {
	Port           int
	DatabaseURL    string
	RequestTimeout time.Duration
	ContactNumber  string

	Pricing PricingConfig
	Routing RoutingConfig

	RedisAddr       string
	GeocodeCacheTTL time.Duration

	KafkaBroker      string
	KafkaQuotesTopic string
}

// Load reads and validates environment variables, applying defaults.
// Returns a *ConfigError for the first missing or invalid value.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	if cfg.Port, err = intEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, &ConfigError{Field: "PORT", Message: "must be between 1 and 65535"}
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, &ConfigError{Field: "DATABASE_URL", Message: "required but not set"}
	}

	cfg.ContactNumber = strings.TrimSpace(os.Getenv("WHATSAPP_NUMBER"))
	if cfg.ContactNumber == "" {
		return nil, &ConfigError{Field: "WHATSAPP_NUMBER", Message: "required but not set"}
	}

	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.Pricing.Currency = Get("CURRENCY", "€")
	if cfg.Pricing.BaseFare, err = floatEnv("BASE_FARE", 3.0); err != nil {
		return nil, err
	}
	if cfg.Pricing.PricePerKm, err = floatEnv("PRICE_PER_KM", 0.9); err != nil {
		return nil, err
	}
	if cfg.Pricing.MinimumFare, err = floatEnv("MINIMUM_FARE", 6.0); err != nil {
		return nil, err
	}

	r := &cfg.Routing
	r.Provider = strings.ToLower(Get("ROUTE_PROVIDER", ProviderOSRM))
	r.NominatimURL = Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	r.OSRMBaseURL = strings.TrimRight(Get("OSRM_BASE_URL", "https://router.project-osrm.org"), "/")
	r.UserAgent = Get("GEOCODER_USER_AGENT", "ride-quote-service/1.0")
	if r.GeocodeTimeout, err = durationEnv("GEOCODE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if r.RouteTimeout, err = durationEnv("ROUTE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	r.GoogleAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	r.GoogleLanguage = Get("GOOGLE_MAPS_LANGUAGE", "pt-PT")
	r.GoogleRegion = Get("GOOGLE_MAPS_REGION", "pt")
	if r.CacheMaxAge, err = durationEnv("ROUTE_CACHE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	switch r.Provider {
	case ProviderOSRM:
	case ProviderGoogle:
		if strings.TrimSpace(r.GoogleAPIKey) == "" {
			return nil, &ConfigError{Field: "GOOGLE_MAPS_API_KEY", Message: "required when ROUTE_PROVIDER=google"}
		}
	default:
		return nil, &ConfigError{Field: "ROUTE_PROVIDER", Message: "must be one of osrm, google"}
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.GeocodeCacheTTL, err = durationEnv("GEOCODE_CACHE_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.KafkaBroker = os.Getenv("KAFKA_BROKER")
	cfg.KafkaQuotesTopic = Get("KAFKA_QUOTES_TOPIC", "ride-quotes")

	return cfg, nil
}

// Validate re-checks invariants on an already-constructed Config.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, &ConfigError{Field: "DATABASE_URL", Message: "cannot be empty"})
	}
	if c.ContactNumber == "" {
		errs = append(errs, &ConfigError{Field: "WHATSAPP_NUMBER", Message: "cannot be empty"})
	}
	if c.Pricing.BaseFare < 0 || c.Pricing.PricePerKm < 0 || c.Pricing.MinimumFare < 0 {
		errs = append(errs, &ConfigError{Field: "pricing", Message: "fares must not be negative"})
	}
	if c.Routing.CacheMaxAge <= 0 {
		errs = append(errs, &ConfigError{Field: "ROUTE_CACHE_MAX_AGE", Message: "must be positive"})
	}
	return errors.Join(errs...)
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a valid integer"}
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a valid number"}
	}
	if f < 0 {
		return 0, &ConfigError{Field: key, Message: "must not be negative"}
	}
	return f, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a valid duration (e.g. 10s, 24h)"}
	}
	if d <= 0 {
		return 0, &ConfigError{Field: key, Message: "must be positive"}
	}
	return d, nil
}
