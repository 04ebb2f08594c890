package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/souqhub/storefront/api/controllers"
	cartcontrollers "github.com/souqhub/storefront/api/controllers/cart"
	"github.com/souqhub/storefront/api/middleware"
	cartsvc "github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/internal/catalog"
	checkoutsvc "github.com/souqhub/storefront/internal/checkout"
	"github.com/souqhub/storefront/pkg/config"
	"github.com/souqhub/storefront/pkg/db"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/metrics"
	"github.com/souqhub/storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	cartManager *cartsvc.Manager,
	catalogService catalog.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	currency := cfg.Cart.Currency

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{slug}", controllers.GetProduct(catalogService, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(catalogService, logg))
			r.Get("/{slug}", controllers.GetCategory(catalogService, logg))
		})
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.ListVendors(catalogService, logg))
			r.Get("/{slug}", controllers.GetVendor(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.Fetch(cartManager, currency, logg))
				r.Delete("/", cartcontrollers.Clear(cartManager, currency, logg))
				r.Post("/items", cartcontrollers.AddItem(cartManager, catalogService, currency, logg))
				r.Patch("/items", cartcontrollers.UpdateItem(cartManager, currency, logg))
				r.Delete("/items", cartcontrollers.RemoveItem(cartManager, currency, logg))
				r.Post("/toggle", cartcontrollers.Toggle(cartManager, currency, logg))
				r.Put("/open", cartcontrollers.SetOpen(cartManager, currency, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, cartManager, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(checkoutService, logg))
		})
	})

	return r
}
