package ports

import (
	"context"
	"ride-quote-service/internal/domain"
	"time"
)

// Port: a boundary for reading and writing resolved routes.
type RouteCache interface {
	// Return the newest route for the exact pair, or nil when none exists
	// or the newest one is older than maxAge.
	GetRecent(ctx context.Context, origin, destination string, maxAge time.Duration) (*domain.RouteQuote, error)
	// Persist a new route in its own transaction and return the stored row.
	Save(ctx context.Context, q domain.NewRouteQuote) (*domain.RouteQuote, error)
}

// A RouteCache scoped to one operation. Implementations must not hold a
// data-store connection between calls. Close must be called on every exit path.
type RouteCacheSession interface {
	RouteCache
	Close() error
}

type RouteCacheStore interface {
	Acquire(ctx context.Context) (RouteCacheSession, error)
}

// Optional address -> coordinates memo used in front of a geocoder.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, c domain.Coordinates) error
}
