package ports

import "context"

// Distance and travel duration of a resolved route.
type RouteResult struct {
	DistanceKm  float64
	DurationMin float64
}

// Contract for resolving driving distance between two free-text addresses.
type RouteResolver interface {
	// Resolve returns the route between two addresses. Every failure is
	// reported as a *domain.ResolutionError.
	Resolve(ctx context.Context, origin string, destination string) (RouteResult, error)
	// Name is the provenance tag stored with resolved routes.
	Name() string
}
