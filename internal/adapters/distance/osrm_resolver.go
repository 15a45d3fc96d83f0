package distance

import (
	"context"
	"net/http"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/ports"
	"strings"
	"time"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	DefaultOSRMBaseURL  = "https://router.project-osrm.org"
	DefaultUserAgent    = "ride-quote-service/1.0"
	defaultHTTPTimeout  = 10 * time.Second
)

type OSRMOptions struct {
	NominatimURL   string
	OSRMBaseURL    string
	UserAgent      string
	GeocodeTimeout time.Duration
	RouteTimeout   time.Duration
	// Optional; nil disables the geocode memo.
	GeocodeCache ports.GeocodeCache
}

// OSRMRouteResolver implements RouteResolver using Nominatim for geocoding
// and the OSRM route service for driving distance.
//
// It performs two geocode lookups followed by one route lookup, in order.
// Each backend has its own client timeout. The resolver never writes to the
// route cache.
//
// The resolver is safe for concurrent use.
type OSRMRouteResolver struct {
	geocodeSession *http.Client
	routeSession   *http.Client
	nominatimURL   string
	osrmBaseURL    string
	userAgent      string
	geocodeCache   ports.GeocodeCache
}

func NewOSRMRouteResolver(opts OSRMOptions) *OSRMRouteResolver {
	if opts.NominatimURL == "" {
		opts.NominatimURL = DefaultNominatimURL
	}
	if opts.OSRMBaseURL == "" {
		opts.OSRMBaseURL = DefaultOSRMBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.GeocodeTimeout <= 0 {
		opts.GeocodeTimeout = defaultHTTPTimeout
	}
	if opts.RouteTimeout <= 0 {
		opts.RouteTimeout = defaultHTTPTimeout
	}

	return &OSRMRouteResolver{
		geocodeSession: &http.Client{Timeout: opts.GeocodeTimeout},
		routeSession:   &http.Client{Timeout: opts.RouteTimeout},
		nominatimURL:   opts.NominatimURL,
		osrmBaseURL:    strings.TrimRight(opts.OSRMBaseURL, "/"),
		userAgent:      opts.UserAgent,
		geocodeCache:   opts.GeocodeCache,
	}
}

func (o *OSRMRouteResolver) Name() string { return domain.SourceOSRM }

func (o *OSRMRouteResolver) Resolve(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Resolve")(&err)

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return ports.RouteResult{}, domain.NewResolutionError("origin and destination must be non-empty", domain.ErrMissingAddress)
	}

	from, err := o.geocode(ctx, origin)
	if err != nil {
		return ports.RouteResult{}, domain.NewResolutionError("geocode origin", err)
	}

	to, err := o.geocode(ctx, destination)
	if err != nil {
		return ports.RouteResult{}, domain.NewResolutionError("geocode destination", err)
	}

	res, err := o.route(ctx, from, to)
	if err != nil {
		return ports.RouteResult{}, domain.NewResolutionError("route", err)
	}

	return res, nil
}
