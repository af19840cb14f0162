package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oficina-erp/oficina-erp/internal/app"
	"github.com/oficina-erp/oficina-erp/internal/catalog/products"
	"github.com/oficina-erp/oficina-erp/internal/catalog/services"
	"github.com/oficina-erp/oficina-erp/internal/clients"
	"github.com/oficina-erp/oficina-erp/internal/dashboard"
	"github.com/oficina-erp/oficina-erp/internal/finance"
	"github.com/oficina-erp/oficina-erp/internal/orders"
	"github.com/oficina-erp/oficina-erp/internal/platform/cache"
	"github.com/oficina-erp/oficina-erp/internal/platform/db"
	"github.com/oficina-erp/oficina-erp/internal/settings"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{
		MaxConns:        cfg.PGMaxConns,
		MinConns:        cfg.PGMinConns,
		MaxConnLifetime: cfg.PGConnLifetime,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	// The dashboard service doubles as the cache invalidator for the
	// modules whose writes feed its aggregates.
	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardTTL)
	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardService := dashboard.NewService(dashboardRepo, dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	clientsRepo := clients.NewRepository(dbpool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(logger, productsRepo, dashboardService)
	productsHandler := products.NewHandler(logger, productsService)

	servicesRepo := services.NewRepository(dbpool)
	servicesService := services.NewService(servicesRepo)
	servicesHandler := services.NewHandler(logger, servicesService)

	financeRepo := finance.NewRepository(dbpool)
	financeService := finance.NewService(logger, financeRepo, dashboardService)
	financeHandler := finance.NewHandler(logger, financeService)

	deriver := finance.NewDeriver(logger, financeRepo, orders.NewDerivationAdapter(dbpool))

	ordersRepo := orders.NewRepository(dbpool)
	ordersService := orders.NewService(logger, ordersRepo, deriver, dashboardService)
	ordersHandler := orders.NewHandler(logger, ordersService)

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(logger, settingsService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		ClientsHandler:   clientsHandler,
		ProductsHandler:  productsHandler,
		ServicesHandler:  servicesHandler,
		OrdersHandler:    ordersHandler,
		FinanceHandler:   financeHandler,
		DashboardHandler: dashboardHandler,
		SettingsHandler:  settingsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
