package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"ride-quote-service/internal/adapters/cache"
	"ride-quote-service/internal/adapters/distance"
	"ride-quote-service/internal/adapters/events"
	"ride-quote-service/internal/adapters/repositories"
	"ride-quote-service/internal/api"
	"ride-quote-service/internal/config"
	"ride-quote-service/internal/platform/db"
	"ride-quote-service/internal/ports"
	"ride-quote-service/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, OSRM or Google, Redis, Kafka) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	var geocodeCache ports.GeocodeCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, geocode memo disabled: addr=%s err=%v", cfg.RedisAddr, err)
		} else {
			geocodeCache = cache.NewRedisGeocodeCache(rdb, cfg.GeocodeCacheTTL)
		}
	}

	resolver, err := newResolver(cfg.Routing, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	opts := []services.QuoteOption{services.WithCacheMaxAge(cfg.Routing.CacheMaxAge)}
	if cfg.KafkaBroker != "" {
		pub, err := events.NewKafkaQuotePublisher(cfg.KafkaBroker, cfg.KafkaQuotesTopic)
		if err != nil {
			log.Fatal(err)
		}
		defer pub.Close()
		opts = append(opts, services.WithPublisher(pub))
	}

	svc := newQuoteService(conn, cfg, resolver, opts...)
	router := api.NewRouter(svc, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%d provider=%s", cfg.Port, resolver.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shut down: %v", err)
	}

	log.Println("server stopped")
}

func newResolver(cfg config.RoutingConfig, geocodeCache ports.GeocodeCache) (ports.RouteResolver, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		r, err := distance.NewGoogleRouteResolver(distance.GoogleOptions{
			APIKey:   cfg.GoogleAPIKey,
			Language: cfg.GoogleLanguage,
			Region:   cfg.GoogleRegion,
		})
		if err != nil {
			return nil, fmt.Errorf("new resolver: %w", err)
		}
		return r, nil
	default:
		return distance.NewOSRMRouteResolver(distance.OSRMOptions{
			NominatimURL:   cfg.NominatimURL,
			OSRMBaseURL:    cfg.OSRMBaseURL,
			UserAgent:      cfg.UserAgent,
			GeocodeTimeout: cfg.GeocodeTimeout,
			RouteTimeout:   cfg.RouteTimeout,
			GeocodeCache:   geocodeCache,
		}), nil
	}
}

func newQuoteService(
	conn *sql.DB,
	cfg *config.Config,
	resolver ports.RouteResolver,
	opts ...services.QuoteOption,
) *services.QuoteService {
	pricing := services.NewPricingService(services.PricingConfig{
		Currency:    cfg.Pricing.Currency,
		BaseFare:    cfg.Pricing.BaseFare,
		PricePerKm:  cfg.Pricing.PricePerKm,
		MinimumFare: cfg.Pricing.MinimumFare,
	})

	return services.NewQuoteService(
		cache.NewSQLRouteCache(conn),
		resolver,
		pricing,
		cfg.ContactNumber,
		opts...,
	)
}
