package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/ports"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

const googleTimeout = 8 * time.Second

type GoogleOptions struct {
	APIKey   string
	Language string
	Region   string
	// Overrides the Google Maps API host; used by tests.
	BaseURL string
	Timeout time.Duration
}

// GoogleRouteResolver implements RouteResolver using the Google Directions API.
// Distance and duration are summed over every leg of the first route.
type GoogleRouteResolver struct {
	client   *maps.Client
	language string
	region   string
}

func NewGoogleRouteResolver(opts GoogleOptions) (*GoogleRouteResolver, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = googleTimeout
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(opts.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}

	return &GoogleRouteResolver{
		client:   client,
		language: opts.Language,
		region:   opts.Region,
	}, nil
}

func (g *GoogleRouteResolver) Name() string { return domain.SourceGoogle }

func (g *GoogleRouteResolver) Resolve(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "google.Resolve")(&err)

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return ports.RouteResult{}, domain.NewResolutionError("origin and destination must be non-empty", domain.ErrMissingAddress)
	}

	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    g.language,
		Region:      g.region,
	}

	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return ports.RouteResult{}, domain.NewResolutionError("directions request", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return ports.RouteResult{}, domain.NewResolutionError("no route found", nil)
	}

	var meters int
	var total time.Duration
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		total += leg.Duration
	}

	km, mins := toRouteUnits(float64(meters), total.Seconds())
	return ports.RouteResult{DistanceKm: km, DurationMin: mins}, nil
}
