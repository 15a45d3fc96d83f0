package services

import (
	"context"
	"errors"
	"log"
	"math"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/ports"
	"strconv"
	"strings"
)

// A resolved distance and how it was obtained.
type distanceOutcome struct {
	DistanceKm  float64
	DurationMin *float64
	Source      string
}

// A named way of obtaining a distance. A nil outcome with a nil error
// means "not applicable, try the next one".
type distanceStrategy struct {
	name    string
	resolve func(ctx context.Context, cache ports.RouteCache, req QuoteRequest) (*distanceOutcome, error)
}

func (s *QuoteService) strategies() []distanceStrategy {
	return []distanceStrategy{
		{name: "manual", resolve: s.manualDistance},
		{name: "cache", resolve: s.cachedDistance},
		{name: "external", resolve: s.externalDistance},
	}
}

func (s *QuoteService) manualDistance(ctx context.Context, cache ports.RouteCache, req QuoteRequest) (*distanceOutcome, error) {
	km, ok := parseManualDistance(req.DistanceKm)
	if !ok {
		return nil, nil
	}

	if _, err := cache.Save(ctx, domain.NewRouteQuote{
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKm:  km,
		Source:      domain.SourceManual,
	}); err != nil {
		return nil, err
	}

	return &distanceOutcome{DistanceKm: km, Source: domain.SourceManual}, nil
}

func (s *QuoteService) cachedDistance(ctx context.Context, cache ports.RouteCache, req QuoteRequest) (*distanceOutcome, error) {
	hit, err := cache.GetRecent(ctx, req.Origin, req.Destination, s.maxAge)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}

	return &distanceOutcome{
		DistanceKm:  hit.DistanceKm,
		DurationMin: hit.DurationMin,
		Source:      domain.CachedSource(hit.Source),
	}, nil
}

// externalDistance absorbs resolver failures; only a failed cache write is returned.
func (s *QuoteService) externalDistance(ctx context.Context, cache ports.RouteCache, req QuoteRequest) (*distanceOutcome, error) {
	if s.resolver == nil {
		return nil, nil
	}

	res, err := s.resolver.Resolve(ctx, req.Origin, req.Destination)
	if err != nil {
		var re *domain.ResolutionError
		if !errors.As(err, &re) {
			err = domain.NewResolutionError("unexpected resolver failure", err)
		}
		log.Printf("req_id=%s route unavailable: resolver=%s origin=%q destination=%q err=%v",
			obs.RequestID(ctx), s.resolver.Name(), req.Origin, req.Destination, err)
		return nil, nil
	}

	// Identical or unroutable endpoints can come back as zero distance.
	if res.DistanceKm <= 0 {
		log.Printf("req_id=%s route unavailable: resolver=%s origin=%q destination=%q distance_km=%v",
			obs.RequestID(ctx), s.resolver.Name(), req.Origin, req.Destination, res.DistanceKm)
		return nil, nil
	}

	dur := res.DurationMin
	if _, err := cache.Save(ctx, domain.NewRouteQuote{
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKm:  res.DistanceKm,
		DurationMin: &dur,
		Source:      s.resolver.Name(),
	}); err != nil {
		return nil, err
	}

	return &distanceOutcome{DistanceKm: res.DistanceKm, DurationMin: &dur, Source: s.resolver.Name()}, nil
}

// Longest manual distance taken at face value.
const maxManualDistanceKm = 1e6

// parseManualDistance accepts a positive number up to maxManualDistanceKm using
// "." or "," as decimal separator. Anything else is treated as not provided.
func parseManualDistance(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	km, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(km) || math.IsInf(km, 0) || km <= 0 || km > maxManualDistanceKm {
		return 0, false
	}

	return km, true
}
