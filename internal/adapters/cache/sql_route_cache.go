package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/obs"
	"ride-quote-service/internal/ports"
	"sync/atomic"
	"time"
)

// Satisfied by *sql.DB and *sql.Conn.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var errSessionClosed = errors.New("route cache: session closed")

// SQLRouteCache is a Postgres-backed store of resolved routes.
// Rows are append-only; freshness is a read-time filter evaluated
// against the database clock.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Acquire opens a session scoped to one quote. The session borrows a pooled
// connection for each read or write and returns it before the call ends, so
// no connection is held while the caller waits on something else.
func (s *SQLRouteCache) Acquire(ctx context.Context) (ports.RouteCacheSession, error) {
	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("route cache: acquire: %w", err)
	}

	return &sqlRouteCacheSession{db: s.DB}, nil
}

func (s *SQLRouteCache) GetRecent(
	ctx context.Context,
	origin string,
	destination string,
	maxAge time.Duration,
) (*domain.RouteQuote, error) {
	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}
	return getRecent(ctx, s.DB, origin, destination, maxAge)
}

func (s *SQLRouteCache) Save(ctx context.Context, q domain.NewRouteQuote) (*domain.RouteQuote, error) {
	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}
	return save(ctx, s.DB, q)
}

type sqlRouteCacheSession struct {
	db     *sql.DB
	closed atomic.Bool
}

func (s *sqlRouteCacheSession) GetRecent(
	ctx context.Context,
	origin string,
	destination string,
	maxAge time.Duration,
) (*domain.RouteQuote, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return getRecent(ctx, conn, origin, destination, maxAge)
}

func (s *sqlRouteCacheSession) Save(ctx context.Context, q domain.NewRouteQuote) (*domain.RouteQuote, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return save(ctx, conn, q)
}

func (s *sqlRouteCacheSession) conn(ctx context.Context) (*sql.Conn, error) {
	if s.closed.Load() {
		return nil, errSessionClosed
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("route cache: acquire connection: %w", err)
	}
	return conn, nil
}

// Close ends the session. Later reads and writes fail.
func (s *sqlRouteCacheSession) Close() error {
	s.closed.Store(true)
	return nil
}

func getRecent(
	ctx context.Context,
	db querier,
	origin string,
	destination string,
	maxAge time.Duration,
) (_ *domain.RouteQuote, err error) {
	defer obs.Time(ctx, "route.cache.GetRecent")(&err)

	// created_at is written by now() on the server; compare it on the server too.
	q := `
	SELECT id, origin, destination, distance_km, duration_min, source, created_at
	FROM route_cache
	WHERE origin = $1
		AND destination = $2
		AND created_at >= now() - make_interval(secs => $3)
	ORDER BY created_at DESC, id DESC
	LIMIT 1;
	`

	var rq domain.RouteQuote
	var duration sql.NullFloat64
	err = db.QueryRowContext(ctx, q, origin, destination, maxAge.Seconds()).Scan(
		&rq.ID,
		&rq.Origin,
		&rq.Destination,
		&rq.DistanceKm,
		&duration,
		&rq.Source,
		&rq.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if duration.Valid {
		d := duration.Float64
		rq.DurationMin = &d
	}

	return &rq, nil
}

func save(ctx context.Context, db querier, in domain.NewRouteQuote) (_ *domain.RouteQuote, err error) {
	defer obs.Time(ctx, "route.cache.Save")(&err)

	in, err = validateNewRouteQuote(in)
	if err != nil {
		return nil, fmt.Errorf("insert route cache: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("insert route cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var duration any
	if in.DurationMin != nil {
		duration = *in.DurationMin
	}

	out := &domain.RouteQuote{
		Origin:      in.Origin,
		Destination: in.Destination,
		DistanceKm:  in.DistanceKm,
		DurationMin: in.DurationMin,
		Source:      in.Source,
	}

	err = tx.QueryRowContext(ctx, `
	INSERT INTO route_cache (origin, destination, distance_km, duration_min, source)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at;
	`, in.Origin, in.Destination, in.DistanceKm, duration, in.Source).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert route cache %q -> %q: %w", in.Origin, in.Destination, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("insert route cache commit: %w", err)
	}

	return out, nil
}
