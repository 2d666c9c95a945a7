package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomlabs/stockroom-backend/api/controllers"
	"github.com/stockroomlabs/stockroom-backend/api/middleware"
	"github.com/stockroomlabs/stockroom-backend/internal/activity"
	authsvc "github.com/stockroomlabs/stockroom-backend/internal/auth"
	"github.com/stockroomlabs/stockroom-backend/internal/catalog"
	"github.com/stockroomlabs/stockroom-backend/internal/orders"
	"github.com/stockroomlabs/stockroom-backend/internal/reporting"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/redis"
	"github.com/stockroomlabs/stockroom-backend/pkg/storage"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Registry *prometheus.Registry

	AuthService      authsvc.Service
	CatalogService   catalog.Service
	OrderService     orders.Service
	ReportingService reporting.Service
	ActivityService  activity.Service
	Images           storage.ImageStore
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	if local, ok := deps.Images.(*storage.LocalStore); ok {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir())))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/otp/request", controllers.AuthRequestOTP(deps.AuthService, logg))
		r.Post("/otp/verify", controllers.AuthVerifyOTP(deps.AuthService, logg))
		r.Post("/password/reset", controllers.AuthResetPassword(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.CatalogService, logg))
			r.Post("/", controllers.CreateProduct(deps.CatalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.CatalogService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(deps.CatalogService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.CatalogService, logg))
			r.Post("/{productId}/adjust-stock", controllers.AdjustStock(deps.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.OrderService, logg))
			r.Post("/", controllers.CreateOrder(deps.OrderService, logg))
			r.Get("/recent", controllers.RecentOrders(deps.OrderService, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
			r.Post("/{orderId}/status", controllers.UpdateOrderStatus(deps.OrderService, logg))
			r.Post("/{orderId}/return", controllers.MarkOrderReturned(deps.OrderService, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", controllers.SalesReport(deps.ReportingService, logg))
			r.Get("/category-sales", controllers.CategorySales(deps.ReportingService, logg))
			r.Get("/returns", controllers.ReturnsReport(deps.ReportingService, logg))
			r.Get("/dashboard", controllers.Dashboard(deps.ReportingService, logg))
			r.Get("/weekly-sales", controllers.WeeklySales(deps.ReportingService, logg))
		})

		r.Get("/activity", controllers.ListActivity(deps.ActivityService, logg))
		r.Post("/uploads", controllers.UploadImage(deps.Images, logg))
	})

	return r
}
