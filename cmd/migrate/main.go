package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/pumpedcity/internal/adapters/postgres"
	"github.com/samirrijal/pumpedcity/internal/adapters/valkey"
	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/ports"
	"github.com/samirrijal/pumpedcity/internal/core/usecases"
	"github.com/samirrijal/pumpedcity/internal/pkg/config"
)

var migrations = []string{
	"migrations/001_init_extensions.sql",
	"migrations/002_bike_parkings.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|seed FILE>")
	}

	cfg, err := config.Load("pumpedcity-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db)
	case "seed":
		if len(os.Args) < 3 {
			log.Fatal("usage: migrate seed FILE")
		}
		runSeed(ctx, db, cfg.Valkey.Addr, os.Args[2])
	case "down":
		log.Println("down migration not yet implemented")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, db *postgres.DB) {
	for _, f := range migrations {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

func runSeed(ctx context.Context, db *postgres.DB, cacheAddr, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	var parkings []domain.BikeParking
	if err := json.Unmarshal(data, &parkings); err != nil {
		log.Fatalf("decode %s: %v", path, err)
	}

	// Stale per-parking entries are evicted when the cache is reachable.
	var cache ports.CacheService
	if vc, err := valkey.New(cacheAddr); err != nil {
		log.Printf("valkey unavailable, cached parkings expire on their own: %v", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	svc := usecases.NewParkingService(postgres.NewParkingRepo(db), cache)
	if err := svc.Import(ctx, parkings); err != nil {
		log.Fatalf("import: %v", err)
	}

	log.Printf("seeded %d parkings from %s", len(parkings), path)
}
