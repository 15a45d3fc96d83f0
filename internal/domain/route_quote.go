package domain

import "time"

// Provenance tags recorded on cached routes and quote results.
const (
	SourceManual      = "manual_km"
	SourceOSRM        = "osrm"
	SourceGoogle      = "google_directions"
	SourceSeed        = "seed"
	SourceUnavailable = "unavailable"

	cacheSourcePrefix = "cache:"
)

// Represents one persisted route resolution between two addresses.
// A RouteQuote is written once and never updated. Several rows may exist
// for the same pair; readers pick the most recently created one.
type RouteQuote struct {
	ID          int64
	Origin      string
	Destination string
	DistanceKm  float64
	DurationMin *float64
	Source      string
	CreatedAt   time.Time
}

// Age reports how old the route is relative to now.
func (q *RouteQuote) Age(now time.Time) time.Duration {
	return now.Sub(q.CreatedAt)
}

// Input for persisting a new RouteQuote. Identity and timestamp are
// assigned by the store.
type NewRouteQuote struct {
	Origin      string
	Destination string
	DistanceKm  float64
	DurationMin *float64
	Source      string
}

// CachedSource tags a distance that was served from the route cache.
func CachedSource(original string) string {
	return cacheSourcePrefix + original
}
