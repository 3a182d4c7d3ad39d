package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hayyerp/pos-backend/api/controllers"
	"github.com/hayyerp/pos-backend/api/middleware"
	"github.com/hayyerp/pos-backend/internal/categories"
	"github.com/hayyerp/pos-backend/internal/customers"
	"github.com/hayyerp/pos-backend/internal/products"
	"github.com/hayyerp/pos-backend/internal/purchases"
	"github.com/hayyerp/pos-backend/internal/reports"
	"github.com/hayyerp/pos-backend/internal/sales"
	"github.com/hayyerp/pos-backend/internal/settings"
	"github.com/hayyerp/pos-backend/internal/suppliers"
	"github.com/hayyerp/pos-backend/internal/users"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/enums"
	"github.com/hayyerp/pos-backend/pkg/logger"
)

// Services bundles every domain service the router mounts.
type Services struct {
	Categories categories.Service
	Customers  customers.Service
	Suppliers  suppliers.Service
	Products   products.Service
	Users      users.Service
	Sales      sales.Service
	Purchases  purchases.Service
	Settings   settings.Service
	Reports    reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	client *db.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, client, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Users, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Categories, logg))
			r.Post("/", controllers.CategoryCreate(svcs.Categories, logg))
			r.Get("/{id}", controllers.CategoryGet(svcs.Categories, logg))
			r.Put("/{id}", controllers.CategoryUpdate(svcs.Categories, logg))
			r.Delete("/{id}", controllers.CategoryDelete(svcs.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Post("/generate-barcode", controllers.ProductGenerateBarcode(svcs.Products, logg))
			r.Get("/barcode/{code}", controllers.ProductGetByBarcode(svcs.Products, logg))
			r.Get("/{id}", controllers.ProductGet(svcs.Products, logg))
			r.Put("/{id}", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/{id}", controllers.ProductDelete(svcs.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(svcs.Customers, logg))
			r.Post("/", controllers.CustomerCreate(svcs.Customers, logg))
			r.Get("/{id}", controllers.CustomerGet(svcs.Customers, logg))
			r.Put("/{id}", controllers.CustomerUpdate(svcs.Customers, logg))
			r.Delete("/{id}", controllers.CustomerDelete(svcs.Customers, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(svcs.Suppliers, logg))
			r.Post("/", controllers.SupplierCreate(svcs.Suppliers, logg))
			r.Get("/{id}", controllers.SupplierGet(svcs.Suppliers, logg))
			r.Put("/{id}", controllers.SupplierUpdate(svcs.Suppliers, logg))
			r.Delete("/{id}", controllers.SupplierDelete(svcs.Suppliers, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SaleList(svcs.Sales, logg))
			r.Post("/", controllers.SaleFinalize(svcs.Sales, logg))
			r.Get("/{id}", controllers.SaleGet(svcs.Sales, logg))
			r.Patch("/{id}/status", controllers.SaleUpdateStatus(svcs.Sales, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.PurchaseList(svcs.Purchases, logg))
			r.Post("/", controllers.PurchaseFinalize(svcs.Purchases, logg))
			r.Get("/{id}", controllers.PurchaseGet(svcs.Purchases, logg))
			r.Patch("/{id}/status", controllers.PurchaseUpdateStatus(svcs.Purchases, logg))
		})

		r.Get("/dashboard", controllers.DashboardStats(svcs.Reports, logg))
		r.Get("/settings", controllers.SettingsGet(svcs.Settings, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Put("/settings", controllers.SettingsUpdate(svcs.Settings, logg))
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(svcs.Users, logg))
				r.Post("/", controllers.UserCreate(svcs.Users, logg))
				r.Get("/{id}", controllers.UserGet(svcs.Users, logg))
				r.Put("/{id}", controllers.UserUpdate(svcs.Users, logg))
				r.Delete("/{id}", controllers.UserDelete(svcs.Users, logg))
			})
		})
	})

	return r
}
