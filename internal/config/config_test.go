package config

import (
	"errors"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/quotes")
	t.Setenv("WHATSAPP_NUMBER", "351900000000")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Pricing.Currency != "€" || cfg.Pricing.BaseFare != 3.0 || cfg.Pricing.PricePerKm != 0.9 || cfg.Pricing.MinimumFare != 6.0 {
		t.Errorf("unexpected pricing defaults: %+v", cfg.Pricing)
	}
	if cfg.Routing.Provider != ProviderOSRM {
		t.Errorf("Provider = %q, want %q", cfg.Routing.Provider, ProviderOSRM)
	}
	if cfg.Routing.GeocodeTimeout != 10*time.Second || cfg.Routing.RouteTimeout != 10*time.Second {
		t.Errorf("unexpected timeouts: %v / %v", cfg.Routing.GeocodeTimeout, cfg.Routing.RouteTimeout)
	}
	if cfg.Routing.CacheMaxAge != 24*time.Hour {
		t.Errorf("CacheMaxAge = %v, want 24h", cfg.Routing.CacheMaxAge)
	}
	if cfg.RedisAddr != "" || cfg.KafkaBroker != "" {
		t.Errorf("optional backends should be disabled by default")
	}
	if cfg.KafkaQuotesTopic != "ride-quotes" {
		t.Errorf("KafkaQuotesTopic = %q", cfg.KafkaQuotesTopic)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "bad port", env: map[string]string{"PORT": "http"}, field: "PORT"},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, field: "PORT"},
		{name: "bad base fare", env: map[string]string{"BASE_FARE": "three"}, field: "BASE_FARE"},
		{name: "negative per km", env: map[string]string{"PRICE_PER_KM": "-1"}, field: "PRICE_PER_KM"},
		{name: "bad timeout", env: map[string]string{"GEOCODE_TIMEOUT": "10"}, field: "GEOCODE_TIMEOUT"},
		{name: "unknown provider", env: map[string]string{"ROUTE_PROVIDER": "here"}, field: "ROUTE_PROVIDER"},
		{name: "google without key", env: map[string]string{"ROUTE_PROVIDER": "google"}, field: "GOOGLE_MAPS_API_KEY"},
		{name: "missing database", env: map[string]string{"DATABASE_URL": ""}, field: "DATABASE_URL"},
		{name: "missing contact", env: map[string]string{"WHATSAPP_NUMBER": " "}, field: "WHATSAPP_NUMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Fatalf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestGetFallback(t *testing.T) {
	t.Setenv("SEED_PATH", "")
	if got := Get("SEED_PATH", "data/seeds/routes.json"); got != "data/seeds/routes.json" {
		t.Fatalf("Get = %q", got)
	}

	t.Setenv("SEED_PATH", "/tmp/routes.json")
	if got := Get("SEED_PATH", "data/seeds/routes.json"); got != "/tmp/routes.json" {
		t.Fatalf("Get = %q", got)
	}
}
