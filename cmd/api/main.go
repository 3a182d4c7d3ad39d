package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hayyerp/pos-backend/api/routes"
	"github.com/hayyerp/pos-backend/internal/barcode"
	"github.com/hayyerp/pos-backend/internal/categories"
	"github.com/hayyerp/pos-backend/internal/customers"
	"github.com/hayyerp/pos-backend/internal/products"
	"github.com/hayyerp/pos-backend/internal/purchases"
	"github.com/hayyerp/pos-backend/internal/reports"
	"github.com/hayyerp/pos-backend/internal/sales"
	"github.com/hayyerp/pos-backend/internal/seed"
	"github.com/hayyerp/pos-backend/internal/settings"
	"github.com/hayyerp/pos-backend/internal/suppliers"
	"github.com/hayyerp/pos-backend/internal/users"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db"
	"github.com/hayyerp/pos-backend/pkg/logger"
	"github.com/hayyerp/pos-backend/pkg/metrics"
	"github.com/hayyerp/pos-backend/pkg/migrate"
)

const shutdownGrace = 10 * time.Second

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
		Console:     cfg.App.LogConsole,
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open store", err)
		os.Exit(1)
	}

	client, err = migrate.EnsureSchema(context.Background(), cfg.DB, logg, client)
	if err != nil {
		logg.Error(context.Background(), "failed to migrate store", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing store", err)
		}
	}()

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(registry)

	svcs, err := buildServices(cfg, client, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	seeder, err := seed.New(
		client,
		users.NewRepository(client.DB()),
		settings.NewRepository(client.DB()),
		categories.NewRepository(client.DB()),
		cfg.Password,
		cfg.Seed,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build seeder", err)
		os.Exit(1)
	}
	if err := seeder.Run(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed store", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"path": client.Path(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, client, registry, svcs),
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, client *db.Client, storeMetrics *metrics.StoreMetrics) (routes.Services, error) {
	var svcs routes.Services

	categoryRepo := categories.NewRepository(client.DB())
	customerRepo := customers.NewRepository(client.DB())
	supplierRepo := suppliers.NewRepository(client.DB())
	productRepo := products.NewRepository(client.DB())
	userRepo := users.NewRepository(client.DB())
	saleRepo := sales.NewRepository(client.DB())
	purchaseRepo := purchases.NewRepository(client.DB())
	settingsRepo := settings.NewRepository(client.DB())
	reportRepo := reports.NewRepository(client.DB())

	generator, err := barcode.NewGenerator(cfg.Barcode.Prefix)
	if err != nil {
		return svcs, err
	}

	categoriesSvc, err := categories.NewService(categoryRepo)
	if err != nil {
		return svcs, err
	}
	customersSvc, err := customers.NewService(customerRepo)
	if err != nil {
		return svcs, err
	}
	suppliersSvc, err := suppliers.NewService(supplierRepo)
	if err != nil {
		return svcs, err
	}
	productsSvc, err := products.NewService(productRepo, categoryRepo, generator, storeMetrics)
	if err != nil {
		return svcs, err
	}
	usersSvc, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		return svcs, err
	}
	settingsSvc, err := settings.NewService(settingsRepo)
	if err != nil {
		return svcs, err
	}
	salesSvc, err := sales.NewService(client, saleRepo, productRepo, customerRepo, settingsSvc, storeMetrics)
	if err != nil {
		return svcs, err
	}
	purchasesSvc, err := purchases.NewService(client, purchaseRepo, productRepo, supplierRepo, settingsSvc, storeMetrics)
	if err != nil {
		return svcs, err
	}
	reportsSvc, err := reports.NewService(reportRepo)
	if err != nil {
		return svcs, err
	}

	svcs = routes.Services{
		Categories: categoriesSvc,
		Customers:  customersSvc,
		Suppliers:  suppliersSvc,
		Products:   productsSvc,
		Users:      usersSvc,
		Sales:      salesSvc,
		Purchases:  purchasesSvc,
		Settings:   settingsSvc,
		Reports:    reportsSvc,
	}
	return svcs, nil
}
