package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/joaoo737/deliveryfront/api/routes"
	"github.com/joaoo737/deliveryfront/internal/auth"
	"github.com/joaoo737/deliveryfront/internal/cart"
	"github.com/joaoo737/deliveryfront/internal/checkout"
	"github.com/joaoo737/deliveryfront/internal/orders"
	"github.com/joaoo737/deliveryfront/internal/products"
	"github.com/joaoo737/deliveryfront/internal/users"
	"github.com/joaoo737/deliveryfront/pkg/auth/session"
	"github.com/joaoo737/deliveryfront/pkg/config"
	"github.com/joaoo737/deliveryfront/pkg/db"
	"github.com/joaoo737/deliveryfront/pkg/instance"
	"github.com/joaoo737/deliveryfront/pkg/logger"
	"github.com/joaoo737/deliveryfront/pkg/metrics"
	"github.com/joaoo737/deliveryfront/pkg/migrate"
	"github.com/joaoo737/deliveryfront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres and redis may come up after the app on fresh deploys, so
	// bootstrap both with a short backoff instead of failing outright.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))

	var dbClient *db.Client
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var dialErr error
		dbClient, dialErr = db.New(ctx, cfg.DB, logg)
		return retry.RetryableError(dialErr)
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dbClient.Close(); cerr != nil {
			logg.Error(context.Background(), "error closing database", cerr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var dialErr error
		redisClient, dialErr = redis.New(ctx, cfg.Redis)
		return retry.RetryableError(dialErr)
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logg.Error(context.Background(), "error closing redis", cerr)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	cartMetrics := metrics.NewCartMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	catalogService, err := products.NewService(productRepo)
	if err != nil {
		return err
	}

	redisStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return err
	}
	cartStore, err := cart.NewFallbackStore(redisStore, cart.NewMemoryStore(), logg)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cartStore, catalogService, cartMetrics)
	if err != nil {
		return err
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(orderRepo, dbClient, cfg.Checkout.Fee())
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(cartService, ordersService, catalogService, cartMetrics, logg)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Vendors:        productRepo,
		CartStore:      cartStore,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		CartConfig:     cfg.Cart,
	})
	if err != nil {
		return err
	}

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisPinger:     redisClient,
		RateLimitStore:  redisClient,
		SessionChecker:  sessionManager,
		AuthService:     authService,
		CatalogService:  catalogService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrdersService:   ordersService,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if serveResult := <-serveErr; serveResult != nil && !errors.Is(serveResult, http.ErrServerClosed) {
		err = multierr.Append(err, serveResult)
	}
	return err
}
