package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bloomkart/storefront-backend/internal/catalog"
	"github.com/bloomkart/storefront-backend/internal/combo"
	"github.com/bloomkart/storefront-backend/internal/pincode"
	"github.com/bloomkart/storefront-backend/internal/repo"
	"github.com/bloomkart/storefront-backend/internal/zones"
	"github.com/bloomkart/storefront-backend/pkg/cartapi"
	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/db"
	"github.com/bloomkart/storefront-backend/pkg/logger"
	"github.com/bloomkart/storefront-backend/pkg/metrics"
	"github.com/bloomkart/storefront-backend/pkg/redis"
)

type services struct {
	catalog catalog.Service
	zones   zones.Service
	combo   combo.Service
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (*services, error) {
	base := repo.NewBase(dbClient.DB())

	catalogService, err := catalog.NewService(catalog.NewRepository(base))
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}
	zoneService, err := zones.NewService(zones.NewRepository(base))
	if err != nil {
		return nil, fmt.Errorf("zone service: %w", err)
	}

	strategy, err := pincode.NewStrategy(cfg.Pincode, zoneService)
	if err != nil {
		return nil, fmt.Errorf("pincode strategy: %w", err)
	}
	verifier, err := pincode.NewVerifier(strategy, cfg.Pincode.Timeout)
	if err != nil {
		return nil, fmt.Errorf("pincode verifier: %w", err)
	}

	pricing, err := combo.PricingFromConfig(cfg.Combo)
	if err != nil {
		return nil, fmt.Errorf("combo pricing: %w", err)
	}
	persister, err := combo.NewRedisPersister(redisClient, cfg.Combo.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("combo persister: %w", err)
	}

	deps := combo.Deps{
		Catalog:   catalogService,
		Verifier:  verifier,
		Persister: persister,
		Pricing:   pricing,
		Logger:    logg,
		Metrics:   metrics.NewComboMetrics(reg),
	}
	if cfg.CartAPI.Enabled() {
		cart, err := cartapi.NewClient(cfg.CartAPI.BaseURL,
			cartapi.WithToken(cfg.CartAPI.Token),
			cartapi.WithTimeout(cfg.CartAPI.Timeout),
		)
		if err != nil {
			return nil, fmt.Errorf("cart api client: %w", err)
		}
		deps.Cart = cart
	}

	comboService, err := combo.NewService(deps)
	if err != nil {
		return nil, fmt.Errorf("combo service: %w", err)
	}

	return &services{catalog: catalogService, zones: zoneService, combo: comboService}, nil
}
