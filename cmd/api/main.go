package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shoploop/shoploop-backend/api/routes"
	"github.com/shoploop/shoploop-backend/internal/addresses"
	"github.com/shoploop/shoploop-backend/internal/auth"
	"github.com/shoploop/shoploop-backend/internal/cart"
	"github.com/shoploop/shoploop-backend/internal/catalog"
	"github.com/shoploop/shoploop-backend/internal/checkout"
	"github.com/shoploop/shoploop-backend/internal/orders"
	"github.com/shoploop/shoploop-backend/internal/users"
	"github.com/shoploop/shoploop-backend/pkg/auth/session"
	"github.com/shoploop/shoploop-backend/pkg/config"
	"github.com/shoploop/shoploop-backend/pkg/db"
	"github.com/shoploop/shoploop-backend/pkg/logger"
	"github.com/shoploop/shoploop-backend/pkg/metrics"
	"github.com/shoploop/shoploop-backend/pkg/migrate"
	"github.com/shoploop/shoploop-backend/pkg/payments"
	"github.com/shoploop/shoploop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	addressService, err := addresses.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create addresses service", err)
		os.Exit(1)
	}

	// Card payments stay optional so the marketplace runs without Square
	// credentials; hosted_redirect and bank_transfer still work.
	var charger payments.CardCharger
	if cfg.Square.AccessToken != "" {
		squareClient, sqErr := payments.NewSquareClient(context.Background(), cfg.Square, logg)
		if sqErr != nil {
			logg.Error(context.Background(), "failed to create square client", sqErr)
			os.Exit(1)
		}
		charger = squareClient
	} else {
		logg.Warn(context.Background(), "square access token missing, card payments disabled")
	}

	ordersService, err := orders.NewService(orderRepo, charger)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		checkout.NewCartAccess(cartRepo),
		checkout.NewOrderWriter(orderRepo),
		addressService,
		dbClient,
		cfg.Payments,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			SessionManager:  sessionManager,
			HTTPMetrics:     httpMetrics,
			AuthService:     authService,
			UsersService:    usersService,
			CatalogService:  catalogService,
			CartService:     cartService,
			AddressService:  addressService,
			OrdersService:   ordersService,
			CheckoutService: checkoutService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
