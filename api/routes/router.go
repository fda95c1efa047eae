package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/advanced-shipping/api/controllers"
	"github.com/angelmondragon/advanced-shipping/api/middleware"
	"github.com/angelmondragon/advanced-shipping/internal/checkout"
	"github.com/angelmondragon/advanced-shipping/internal/orders"
	"github.com/angelmondragon/advanced-shipping/internal/products"
	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/pkg/config"
	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/metrics"
)

// RouterParams carries everything the HTTP surface depends on. Pingers left
// nil are reported as disabled by the readiness probe.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics

	Checkout checkout.Service
	Orders   orders.Service
	Products products.Service
	Settings settings.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, params.HTTP),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    params.DB,
			"redis": params.Redis,
		}))
	})

	gatherer := params.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/shipping", func(r chi.Router) {
			r.Post("/rates", controllers.ShippingRates(params.Checkout, logg))
			r.Post("/options", controllers.ShippingOptions(params.Checkout, logg))
			r.Post("/free-shipping", controllers.ShippingFreeShipping(params.Checkout, logg))
		})
		r.Post("/checkout/validate", controllers.CheckoutValidate(params.Checkout, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/shipping-info", controllers.ProductShippingInfoQuery(params.Products, logg))
			r.Post("/shipping-info", controllers.ProductShippingInfo(params.Products, logg))
		})

		r.Route("/orders/{orderId}/shipping-dates", func(r chi.Router) {
			r.Get("/", controllers.OrderShippingDates(params.Orders, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Post("/", controllers.OrderStampShippingDates(params.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.ActorRoleAdmin, enums.ActorRoleShopManager))

		r.Get("/rules", controllers.AdminRules(params.Settings, logg))
		r.Put("/rules", controllers.AdminSaveRules(params.Settings, logg))
		r.Get("/settings", controllers.AdminSettings(params.Settings, logg))
		r.Put("/settings", controllers.AdminSaveSettings(params.Settings, logg))
		r.Put("/orders/{orderId}/shipping-dates", controllers.AdminUpdateOrderShippingDates(params.Orders, logg))
	})

	return r
}
