package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/ports"
)

const osrmCodeOK = "Ok"

type osrmRouteResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance *float64 `json:"distance"`
		Duration *float64 `json:"duration"`
	} `json:"routes"`
}

// route fetches the driving route between two coordinates without geometry.
func (o *OSRMRouteResolver) route(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.route")(&err)

	endpoint := fmt.Sprintf("%s/route/v1/driving/%s;%s", o.osrmBaseURL, from.LonLat(), to.LonLat())

	req, err := o.newRequest(ctx, endpoint)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("route request: %w", err)
	}

	q := req.URL.Query()
	q.Set("overview", "false")
	req.URL.RawQuery = q.Encode()

	resp, err := do(o.routeSession, req)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != osrmCodeOK {
		return ports.RouteResult{}, fmt.Errorf("route service code %q: %s", decoded.Code, decoded.Message)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, errors.New("route service returned no routes")
	}

	r := decoded.Routes[0]
	if r.Distance == nil || r.Duration == nil {
		return ports.RouteResult{}, errors.New("route is missing distance or duration")
	}
	if *r.Distance < 0 || *r.Duration < 0 {
		return ports.RouteResult{}, fmt.Errorf("invalid route values distance=%v duration=%v", *r.Distance, *r.Duration)
	}

	km, mins := toRouteUnits(*r.Distance, *r.Duration)
	return ports.RouteResult{DistanceKm: km, DurationMin: mins}, nil
}
