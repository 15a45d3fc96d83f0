package cache

import (
	"fmt"
	"math"
	"ride-quote-service/internal/domain"
	"strings"
)

const maxSourceLen = 32

// validateNewRouteQuote trims addresses and rejects rows the store must never hold.
func validateNewRouteQuote(q domain.NewRouteQuote) (domain.NewRouteQuote, error) {
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	q.Source = strings.TrimSpace(q.Source)

	if q.Origin == "" || q.Destination == "" {
		return q, fmt.Errorf("%w: origin and destination must not be empty", domain.ErrInvalidInput)
	}
	if math.IsNaN(q.DistanceKm) || math.IsInf(q.DistanceKm, 0) || q.DistanceKm <= 0 {
		return q, fmt.Errorf("%w: distance_km must be positive, got %v", domain.ErrInvalidInput, q.DistanceKm)
	}
	if q.DurationMin != nil && (math.IsNaN(*q.DurationMin) || *q.DurationMin < 0) {
		return q, fmt.Errorf("%w: duration_min must not be negative", domain.ErrInvalidInput)
	}
	if q.Source == "" || len(q.Source) > maxSourceLen {
		return q, fmt.Errorf("%w: source must be 1-%d characters", domain.ErrInvalidInput, maxSourceLen)
	}

	return q, nil
}
