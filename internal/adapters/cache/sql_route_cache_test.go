package cache

import (
	"context"
	"database/sql"
	"os"
	"ride-quote-service/internal/adapters/repositories"
	"ride-quote-service/internal/domain"
	"ride-quote-service/internal/platform/db"
	"testing"
	"time"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	conn, err := db.Open(context.Background(), url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := repositories.InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func uniquePair(t *testing.T) (string, string) {
	suffix := time.Now().Format("150405.000000000")
	return t.Name() + " origin " + suffix, t.Name() + " destination " + suffix
}

func TestSQLRouteCacheSaveThenGetRecent(t *testing.T) {
	conn := openTestDB(t)
	store := NewSQLRouteCache(conn)
	ctx := context.Background()
	origin, dest := uniquePair(t)

	session, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer session.Close()

	dur := 170.0
	saved, err := session.Save(ctx, domain.NewRouteQuote{
		Origin: origin, Destination: dest, DistanceKm: 278.5, DurationMin: &dur, Source: domain.SourceOSRM,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 || saved.CreatedAt.IsZero() {
		t.Fatalf("expected RETURNING id and created_at, got %+v", saved)
	}

	got, err := session.GetRecent(ctx, origin, dest, time.Hour)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if got == nil || got.ID != saved.ID || got.DistanceKm != 278.5 || got.DurationMin == nil || *got.DurationMin != 170.0 {
		t.Fatalf("unexpected row %+v", got)
	}

	// Visible from a different connection once Save returns.
	other, err := store.GetRecent(ctx, origin, dest, time.Hour)
	if err != nil || other == nil {
		t.Fatalf("GetRecent via pool = %v, %v", other, err)
	}
}

func TestSQLRouteCacheStaleRowIsKept(t *testing.T) {
	conn := openTestDB(t)
	store := NewSQLRouteCache(conn)
	ctx := context.Background()
	origin, dest := uniquePair(t)

	if _, err := store.Save(ctx, domain.NewRouteQuote{Origin: origin, Destination: dest, DistanceKm: 12, Source: domain.SourceManual}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := conn.ExecContext(ctx,
		`UPDATE route_cache SET created_at = now() - interval '2 hours' WHERE origin = $1 AND destination = $2`,
		origin, dest,
	); err != nil {
		t.Fatalf("backdate row: %v", err)
	}

	got, err := store.GetRecent(ctx, origin, dest, time.Hour)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if got != nil {
		t.Fatalf("expected stale row to be ignored, got %+v", got)
	}

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM route_cache WHERE origin = $1 AND destination = $2`, origin, dest).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("row count = %d, want 1", n)
	}
}

func TestSQLRouteCacheManualRowHasNullDuration(t *testing.T) {
	conn := openTestDB(t)
	store := NewSQLRouteCache(conn)
	ctx := context.Background()
	origin, dest := uniquePair(t)

	if _, err := store.Save(ctx, domain.NewRouteQuote{Origin: origin, Destination: dest, DistanceKm: 7.5, Source: domain.SourceManual}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetRecent(ctx, origin, dest, time.Hour)
	if err != nil || got == nil {
		t.Fatalf("GetRecent = %v, %v", got, err)
	}
	if got.DurationMin != nil {
		t.Fatalf("DurationMin = %v, want nil", *got.DurationMin)
	}
}

func TestSQLRouteCacheSessionDoesNotHoldConnection(t *testing.T) {
	conn := openTestDB(t)
	conn.SetMaxOpenConns(1)
	store := NewSQLRouteCache(conn)
	ctx := context.Background()
	origin, dest := uniquePair(t)

	first, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Close()

	if _, err := first.Save(ctx, domain.NewRouteQuote{Origin: origin, Destination: dest, DistanceKm: 4, Source: domain.SourceManual}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if inUse := conn.Stats().InUse; inUse != 0 {
		t.Fatalf("connections in use between calls = %d, want 0", inUse)
	}

	// With a single-connection pool this would block if first still held it.
	tctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	second, err := store.Acquire(tctx)
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	defer second.Close()

	got, err := second.GetRecent(tctx, origin, dest, time.Hour)
	if err != nil || got == nil {
		t.Fatalf("GetRecent from second session = %v, %v", got, err)
	}
}
