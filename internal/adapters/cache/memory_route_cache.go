package cache

import (
	"context"
	"fmt"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/ports"
	"sync"
	"time"
)

// MemoryRouteCache is an in-process RouteCacheStore with the same
// semantics as SQLRouteCache. It backs tests and local runs without Postgres.
type MemoryRouteCache struct {
	mu     sync.Mutex
	rows   []domain.RouteQuote
	nextID int64
	open   int
	now    func() time.Time
}

func NewMemoryRouteCache() *MemoryRouteCache {
	return &MemoryRouteCache{now: time.Now}
}

// SetClock replaces the time source used for created_at and age checks.
func (m *MemoryRouteCache) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryRouteCache) Acquire(ctx context.Context) (ports.RouteCacheSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("route cache: acquire: %w", err)
	}

	m.mu.Lock()
	m.open++
	m.mu.Unlock()

	return &memorySession{m: m}, nil
}

func (m *MemoryRouteCache) GetRecent(
	ctx context.Context,
	origin string,
	destination string,
	maxAge time.Duration,
) (*domain.RouteQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newest *domain.RouteQuote
	for i := range m.rows {
		r := &m.rows[i]
		if r.Origin != origin || r.Destination != destination {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) ||
			(r.CreatedAt.Equal(newest.CreatedAt) && r.ID > newest.ID) {
			newest = r
		}
	}

	if newest == nil || newest.Age(m.now()) > maxAge {
		return nil, nil
	}

	out := *newest
	return &out, nil
}

func (m *MemoryRouteCache) Save(ctx context.Context, q domain.NewRouteQuote) (*domain.RouteQuote, error) {
	q, err := validateNewRouteQuote(q)
	if err != nil {
		return nil, fmt.Errorf("insert route cache: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	row := domain.RouteQuote{
		ID:          m.nextID,
		Origin:      q.Origin,
		Destination: q.Destination,
		DistanceKm:  q.DistanceKm,
		DurationMin: q.DurationMin,
		Source:      q.Source,
		CreatedAt:   m.now(),
	}
	m.rows = append(m.rows, row)

	return &row, nil
}

// Len reports the number of stored rows, stale ones included.
func (m *MemoryRouteCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Rows returns a snapshot of every stored row in insertion order.
func (m *MemoryRouteCache) Rows() []domain.RouteQuote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RouteQuote(nil), m.rows...)
}

// OpenSessions reports sessions acquired but not yet closed.
func (m *MemoryRouteCache) OpenSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

type memorySession struct {
	m    *MemoryRouteCache
	once sync.Once
}

func (s *memorySession) GetRecent(ctx context.Context, origin, destination string, maxAge time.Duration) (*domain.RouteQuote, error) {
	return s.m.GetRecent(ctx, origin, destination, maxAge)
}

func (s *memorySession) Save(ctx context.Context, q domain.NewRouteQuote) (*domain.RouteQuote, error) {
	return s.m.Save(ctx, q)
}

func (s *memorySession) Close() error {
	s.once.Do(func() {
		s.m.mu.Lock()
		s.m.open--
		s.m.mu.Unlock()
	})
	return nil
}
