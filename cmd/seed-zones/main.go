package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bloomkart/storefront-backend/internal/repo"
	"github.com/bloomkart/storefront-backend/internal/zones"
	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/db"
	"github.com/bloomkart/storefront-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-zones"})

	_ = godotenv.Load()

	path := flag.String("file", "zones.yaml", "YAML file with the zones to import")
	flag.Parse()

	f, err := os.Open(*path)
	requireResource(context.Background(), logg, "seed file", err)
	file, err := zones.ParseSeed(f)
	_ = f.Close()
	requireResource(context.Background(), logg, "seed file", err)

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed-zones",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"file": *path,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	svc, err := zones.NewService(zones.NewRepository(repo.NewBase(dbClient.DB())))
	requireResource(ctx, logg, "zone service", err)

	result, err := zones.Seed(ctx, svc, file)
	ctx = logg.WithFields(ctx, map[string]any{
		"created": result.Created,
		"updated": result.Updated,
	})
	if err != nil {
		logg.Error(ctx, "zone import failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "zone import complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
