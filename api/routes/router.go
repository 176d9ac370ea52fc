package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoploop/shoploop-backend/api/controllers"
	"github.com/shoploop/shoploop-backend/api/middleware"
	"github.com/shoploop/shoploop-backend/internal/addresses"
	"github.com/shoploop/shoploop-backend/internal/auth"
	"github.com/shoploop/shoploop-backend/internal/cart"
	"github.com/shoploop/shoploop-backend/internal/catalog"
	checkoutsvc "github.com/shoploop/shoploop-backend/internal/checkout"
	"github.com/shoploop/shoploop-backend/internal/orders"
	"github.com/shoploop/shoploop-backend/internal/users"
	"github.com/shoploop/shoploop-backend/pkg/auth/session"
	"github.com/shoploop/shoploop-backend/pkg/config"
	"github.com/shoploop/shoploop-backend/pkg/db"
	"github.com/shoploop/shoploop-backend/pkg/logger"
	"github.com/shoploop/shoploop-backend/pkg/metrics"
	"github.com/shoploop/shoploop-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService     auth.Service
	UsersService    users.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	AddressService  addresses.Service
	OrdersService   orders.Service
	CheckoutService checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(deps.DB, deps.Redis)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, cfg, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, cfg, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/oauth/google", controllers.AuthOAuth(deps.AuthService, cfg, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg, logg))
	})

	// Public storefront reads.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CategoryList(deps.CatalogService, logg))
		r.Get("/products", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/products/featured", controllers.ProductFeatured(deps.CatalogService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserProfile(deps.UsersService, logg))
			r.Put("/me", controllers.UserUpdateProfile(deps.UsersService, logg))
			r.Post("/become-vendor", controllers.UserBecomeVendor(deps.UsersService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(deps.AddressService, logg))
			r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
			r.Put("/{addressId}", controllers.AddressUpdate(deps.AddressService, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(deps.AddressService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.Checkout(deps.CheckoutService, logg))
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/pay", controllers.OrderPay(deps.OrdersService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireVendor(logg))
			r.Route("/vendor", func(r chi.Router) {
				r.Get("/products", controllers.VendorProductList(deps.CatalogService, logg))
				r.Get("/orders", controllers.VendorOrderList(deps.OrdersService, logg))
			})
			r.Post("/products", controllers.ProductCreate(deps.CatalogService, logg))
			r.Put("/products/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
			r.Delete("/products/{productId}", controllers.ProductDelete(deps.CatalogService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Post("/categories", controllers.CategoryCreate(deps.CatalogService, logg))
		r.Patch("/users/{userId}", controllers.AdminUpdateUser(deps.UsersService, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
		})
	})

	return r
}
