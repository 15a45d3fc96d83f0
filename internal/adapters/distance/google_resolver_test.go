package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"ride-quote-service/internal/domain"
	"testing"
)

func newGoogleServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleResolveSumsLegs(t *testing.T) {
	srv := newGoogleServer(t, `{
		"status": "OK",
		"geocoded_waypoints": [],
		"routes": [{
			"summary": "A2",
			"legs": [
				{"distance": {"text": "100 km", "value": 100000}, "duration": {"text": "1 h", "value": 3600}},
				{"distance": {"text": "178 km", "value": 178500}, "duration": {"text": "1 h 50", "value": 6600}}
			]
		}]
	}`)

	g, err := NewGoogleRouteResolver(GoogleOptions{APIKey: "AIza-test", BaseURL: srv.URL, Language: "pt-PT", Region: "pt"})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	res, err := g.Resolve(context.Background(), "Faro", "Lisboa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DistanceKm != 278.5 || res.DurationMin != 170.0 {
		t.Fatalf("got %+v, want 278.5 km / 170.0 min", res)
	}
	if g.Name() != domain.SourceGoogle {
		t.Errorf("Name() = %q", g.Name())
	}
}

func TestGoogleResolveFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero results", body: `{"status":"ZERO_RESULTS","routes":[]}`},
		{name: "denied", body: `{"status":"REQUEST_DENIED","error_message":"bad key","routes":[]}`},
		{name: "no legs", body: `{"status":"OK","routes":[{"legs":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGoogleServer(t, tt.body)
			g, err := NewGoogleRouteResolver(GoogleOptions{APIKey: "AIza-test", BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("new resolver: %v", err)
			}

			_, err = g.Resolve(context.Background(), "Faro", "Lisboa")
			var re *domain.ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("expected *domain.ResolutionError, got %v", err)
			}
		})
	}
}

func TestGoogleResolveMissingAddress(t *testing.T) {
	g, err := NewGoogleRouteResolver(GoogleOptions{APIKey: "AIza-test", BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	_, err = g.Resolve(context.Background(), " ", "Lisboa")
	if !errors.Is(err, domain.ErrMissingAddress) {
		t.Fatalf("expected ErrMissingAddress, got %v", err)
	}
}

func TestNewGoogleRouteResolverRequiresKey(t *testing.T) {
	if _, err := NewGoogleRouteResolver(GoogleOptions{}); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
