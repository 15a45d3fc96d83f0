package services

import (
	"context"
	"fmt"
	"log"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/ports"
	"strings"
	"time"
)

const (
	DefaultCacheMaxAge    = 24 * time.Hour
	DefaultPublishTimeout = 2 * time.Second
)

type QuoteRequest struct {
	Origin      string
	Destination string
	// Optional manual distance; "." and "," are both accepted as decimal separator.
	DistanceKm string
}

type QuoteOption func(*QuoteService)

// WithPublisher announces every completed quote. Publish failures are logged.
func WithPublisher(p ports.QuotePublisher) QuoteOption {
	return func(s *QuoteService) { s.publisher = p }
}

// WithPublishTimeout bounds how long a quote waits on the publisher.
func WithPublishTimeout(d time.Duration) QuoteOption {
	return func(s *QuoteService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func WithCacheMaxAge(d time.Duration) QuoteOption {
	return func(s *QuoteService) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// QuoteService resolves a distance for a pair of addresses, prices it and
// composes the contact message.
type QuoteService struct {
	caches         ports.RouteCacheStore
	resolver       ports.RouteResolver
	pricing        *PricingService
	contactNumber  string
	publisher      ports.QuotePublisher
	publishTimeout time.Duration
	maxAge         time.Duration
}

func NewQuoteService(
	caches ports.RouteCacheStore,
	resolver ports.RouteResolver,
	pricing *PricingService,
	contactNumber string,
	opts ...QuoteOption,
) *QuoteService {
	s := &QuoteService{
		caches:         caches,
		resolver:       resolver,
		pricing:        pricing,
		contactNumber:  contactNumber,
		publishTimeout: DefaultPublishTimeout,
		maxAge:         DefaultCacheMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote runs the distance strategies in order (manual, cache, external),
// prices the first distance found and builds the contact message.
//
// A resolver failure is not an error: the result is returned without
// distance or price and with DistanceSource "unavailable". Route cache
// failures are returned to the caller.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (_ *domain.QuoteResult, err error) {
	defer obs.Time(ctx, "quote.Quote")(&err)

	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Origin == "" || req.Destination == "" {
		return nil, fmt.Errorf("quote: origin and destination are required: %w", domain.ErrMissingAddress)
	}

	session, err := s.caches.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("quote: acquire route cache: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Printf("req_id=%s route cache release failed: %v", obs.RequestID(ctx), cerr)
		}
	}()

	var outcome *distanceOutcome
	for _, st := range s.strategies() {
		o, err := st.resolve(ctx, session, req)
		if err != nil {
			return nil, fmt.Errorf("quote: %s distance: %w", st.name, err)
		}
		if o != nil {
			outcome = o
			break
		}
	}

	cfg := s.pricing.Config()
	result := &domain.QuoteResult{
		Origin:         req.Origin,
		Destination:    req.Destination,
		Currency:       cfg.Currency,
		DistanceSource: domain.SourceUnavailable,
	}

	if outcome != nil {
		price, err := s.pricing.CalculatePrice(outcome.DistanceKm)
		if err != nil {
			return nil, fmt.Errorf("quote: %w", err)
		}

		km := outcome.DistanceKm
		result.DistanceKm = &km
		result.DurationMin = outcome.DurationMin
		result.Price = &price
		result.DistanceSource = outcome.Source
	}

	result.ContactMessage = ContactMessage(result)
	result.ContactURL = ContactURL(s.contactNumber, result.ContactMessage)

	s.publish(ctx, result)

	return result, nil
}

func (s *QuoteService) publish(ctx context.Context, result *domain.QuoteResult) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, result); err != nil {
		log.Printf("req_id=%s publish quote failed: origin=%q destination=%q err=%v",
			obs.RequestID(ctx), result.Origin, result.Destination, err)
	}
}
