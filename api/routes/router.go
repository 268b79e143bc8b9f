package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velocityparts/storefront/api/controllers"
	"github.com/velocityparts/storefront/api/middleware"
	"github.com/velocityparts/storefront/internal/currency"
	"github.com/velocityparts/storefront/internal/orchestrator"
	"github.com/velocityparts/storefront/internal/promo"
	"github.com/velocityparts/storefront/pkg/config"
	"github.com/velocityparts/storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions *orchestrator.Manager,
	currencyService currency.Service,
	promoService promo.Service,
	readiness ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionScope(sessions, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionStatus(cfg, logg))
			r.Post("/logout", controllers.SessionLogout(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(logg))
			r.Post("/sync", controllers.CartSync(logg))
			r.Post("/items", controllers.CartAddItem(logg))
			r.Post("/bulk-items", controllers.CartAddBulkItem(logg))
			r.Put("/items/{cartItemId}", controllers.CartUpdateQuantity(logg))
			r.Delete("/items/{cartItemId}", controllers.CartRemoveItem(logg))
			r.Delete("/", controllers.CartClear(logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(logg))
			r.Post("/items", controllers.WishlistAddItem(logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(logg))
		})

		r.Post("/checkout", controllers.Checkout(logg))
		r.Get("/products/{sku}/bulk-pricing", controllers.BulkPricing(logg))

		r.Route("/currency", func(r chi.Router) {
			r.Get("/countries", controllers.CurrencyCountries(currencyService, logg))
			r.Get("/rates/{code}", controllers.CurrencyRates(currencyService, logg))
			r.Post("/convert", controllers.CurrencyConvert(currencyService, logg))
			r.Get("/country", controllers.CurrencyCountryGet(currencyService, logg))
			r.Put("/country", controllers.CurrencyCountrySelect(currencyService, logg))
		})

		r.Post("/promo-codes/validate", controllers.PromoValidate(promoService, logg))
	})

	return r
}
