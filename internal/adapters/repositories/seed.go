package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/ports"
	"strings"
)

type RouteSeed struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	DistanceKm  float64  `json:"distance_km"`
	DurationMin *float64 `json:"duration_min,omitempty"`
	Source      string   `json:"source,omitempty"`
}

// Load and validate route seeds from a JSON file.
func LoadRouteSeeds(jsonPath string) ([]RouteSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var data []RouteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed routes: parse json: %w", err)
	}

	rows := make([]RouteSeed, 0, len(data))
	for i, item := range data {
		origin := strings.TrimSpace(item.Origin)
		dest := strings.TrimSpace(item.Destination)
		if origin == "" || dest == "" {
			return nil, fmt.Errorf("seed routes: item at index %d: origin and destination cannot be empty", i+1)
		}

		if item.DistanceKm <= 0 {
			return nil, fmt.Errorf("seed routes: item at index %d: invalid distance_km %v", i+1, item.DistanceKm)
		}

		source := strings.TrimSpace(item.Source)
		if source == "" {
			source = domain.SourceSeed
		}

		rows = append(rows, RouteSeed{
			Origin:      origin,
			Destination: dest,
			DistanceKm:  item.DistanceKm,
			DurationMin: item.DurationMin,
			Source:      source,
		})
	}

	return rows, nil
}

// Save every seed through the route cache, one transaction per row.
// Seeded routes count as fresh from the moment they are written.
func SeedRoutes(ctx context.Context, store ports.RouteCache, seeds []RouteSeed) (int, error) {
	for i, s := range seeds {
		_, err := store.Save(ctx, domain.NewRouteQuote{
			Origin:      s.Origin,
			Destination: s.Destination,
			DistanceKm:  s.DistanceKm,
			DurationMin: s.DurationMin,
			Source:      s.Source,
		})
		if err != nil {
			return i, fmt.Errorf("seed routes: insert %q -> %q: %w", s.Origin, s.Destination, err)
		}
	}

	return len(seeds), nil
}
