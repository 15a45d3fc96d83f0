package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"ride-quote-service/internal/adapters/cache"
	"ride-quote-service/internal/adapters/repositories"
	"ride-quote-service/internal/config"
	"ride-quote-service/internal/platform/db"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	skipSeed := flag.Bool("schema-only", false, "create the schema without seeding routes")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/routes.json")
	if err := initAndSeed(ctx, conn, seedPath, !*skipSeed); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, seed bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !seed {
		return nil
	}

	log.Printf("Seeding routes from %s...", seedPath)
	seeds, err := repositories.LoadRouteSeeds(seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	n, err := repositories.SeedRoutes(ctx, cache.NewSQLRouteCache(conn), seeds)
	if err != nil {
		log.Fatalf("seeding failed after %d routes: %v", n, err)
	}
	log.Printf("Seeding complete. routes=%d", n)

	return nil
}
