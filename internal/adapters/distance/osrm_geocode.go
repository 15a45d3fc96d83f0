package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"strconv"
	"strings"
)

// Nominatim returns coordinates as decimal strings.
type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// geocode resolves one address to coordinates, consulting the memo first
// when one is configured. Memo failures are logged and never surfaced.
func (o *OSRMRouteResolver) geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "osrm.geocode")(&err)

	if o.geocodeCache != nil {
		c, ok, err := o.geocodeCache.Get(ctx, address)
		if err != nil {
			log.Printf("geocode cache read failed: address=%q err=%v", address, err)
		} else if ok {
			return c, nil
		}
	}

	req, err := o.newRequest(ctx, o.nominatimURL)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := do(o.geocodeSession, req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	lat, err := parseCoordinate(places[0].Lat)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude for %q: %w", address, err)
	}
	lon, err := parseCoordinate(places[0].Lon)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude for %q: %w", address, err)
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.Put(ctx, address, c); err != nil {
			log.Printf("geocode cache write failed: address=%q err=%v", address, err)
		}
	}

	return c, nil
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}
