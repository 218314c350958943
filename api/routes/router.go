package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomkart/storefront-backend/api/controllers"
	"github.com/bloomkart/storefront-backend/api/middleware"
	"github.com/bloomkart/storefront-backend/internal/catalog"
	"github.com/bloomkart/storefront-backend/internal/combo"
	"github.com/bloomkart/storefront-backend/internal/zones"
	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/db"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/logger"
	"github.com/bloomkart/storefront-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer uses for
// idempotency, rate limiting and readiness.
type RedisStore interface {
	redis.IdempotencyStore
	redis.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisStore RedisStore,
	gatherer prometheus.Gatherer,
	comboService combo.Service,
	catalogService catalog.Service,
	zoneService zones.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var idempotencyStore redis.IdempotencyStore
	var limiterStore interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["database"] = dbP
	}
	if redisStore != nil {
		idempotencyStore = redisStore
		limiterStore = redisStore
		readiness["redis"] = redisStore
	}

	verifyPolicy := middleware.NewRateLimitPolicy(
		"pincode",
		cfg.Pincode.RateLimitWindow,
		cfg.Pincode.RateLimitIP,
		cfg.Pincode.RateLimitSess,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(catalogService, logg))
		})

		r.Route("/combo", func(r chi.Router) {
			r.Use(middleware.ComboSession(logg))

			r.Get("/", controllers.GetCombo(comboService, logg))
			r.Delete("/", controllers.ClearCombo(comboService, logg))
			r.Post("/items", controllers.AddComboItem(comboService, logg))
			r.Patch("/items", controllers.UpdateComboItem(comboService, logg))
			r.Delete("/items", controllers.RemoveComboItem(comboService, logg))
			r.Put("/pincode", controllers.SetComboPincode(comboService, logg))
			r.With(middleware.RateLimit(verifyPolicy, limiterStore, logg)).
				Post("/pincode/verify", controllers.VerifyComboPincode(comboService, logg))
			r.Put("/delivery", controllers.SelectComboDelivery(comboService, logg))
			r.With(middleware.Idempotency(idempotencyStore, logg)).
				Post("/finalize", controllers.FinalizeCombo(comboService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", controllers.AdminListZones(zoneService, logg))
			r.Post("/", controllers.AdminCreateZone(zoneService, logg))
			r.Get("/{zoneId}", controllers.AdminGetZone(zoneService, logg))
			r.Put("/{zoneId}", controllers.AdminUpdateZone(zoneService, logg))
			r.Delete("/{zoneId}", controllers.AdminDeleteZone(zoneService, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
		})
	})

	return r
}
