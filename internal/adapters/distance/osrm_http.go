package distance

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (o *OSRMRouteResolver) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Nominatim rejects requests without an identifying agent.
	req.Header.Set("User-Agent", o.userAgent)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// do executes req and turns any non-2xx response into an *httpStatusError.
// Failures are never retried.
func do(session *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// toRouteUnits converts meters and seconds to kilometers (2 dp) and minutes (1 dp).
func toRouteUnits(meters, seconds float64) (km, minutes float64) {
	return round(meters/1000, 2), round(seconds/60, 1)
}
