package distance

import (
	"context"
	"fmt"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/ports"
	"sync/atomic"
)

type MockPair struct {
	From, To string
	Km       float64
	Minutes  float64
}

// MockRouteResolver answers from a fixed pair table. Unknown pairs fail
// with a *domain.ResolutionError.
type MockRouteResolver struct {
	m     map[string]ports.RouteResult
	name  string
	calls atomic.Int64
}

func NewMockRouteResolver(pairs []MockPair) *MockRouteResolver {
	m := make(map[string]ports.RouteResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.RouteResult{DistanceKm: p.Km, DurationMin: p.Minutes}
	}
	return &MockRouteResolver{m: m, name: "mock"}
}

func (p *MockRouteResolver) Name() string { return p.name }

// Calls reports how many times Resolve has been invoked.
func (p *MockRouteResolver) Calls() int { return int(p.calls.Load()) }

func (p *MockRouteResolver) Resolve(ctx context.Context, origin, destination string) (ports.RouteResult, error) {
	p.calls.Add(1)

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.RouteResult{}, domain.NewResolutionError(
			"lookup",
			fmt.Errorf("missing pair %q -> %q", origin, destination),
		)
	}

	return r, nil
}
