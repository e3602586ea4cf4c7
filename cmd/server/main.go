// Package main is the entry point for the puntoventa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puntoventa/internal/config"
	"puntoventa/internal/domain/auth"
	"puntoventa/internal/domain/cashadvance"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/reports"
	"puntoventa/internal/domain/sales"
	"puntoventa/internal/domain/settings"
	v1 "puntoventa/internal/infrastructure/http/v1"
	"puntoventa/internal/infrastructure/storage/postgres"
	"puntoventa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting puntoventa server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	userRepo := postgres.NewUserRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	salesRepo := postgres.NewSalesRepo(txManager)
	fundRepo := postgres.NewCashAdvanceRepo(txManager)
	settingsRepo := postgres.NewSettingsRepo(txManager)

	// --- Services ---
	jwtCfg := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtCfg.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtCfg)

	authService := auth.NewService(userRepo, jwtService)
	productService := product.NewService(productRepo)
	settingsService := settings.NewService(settingsRepo, txManager)
	salesService := sales.NewService(salesRepo, productService)
	cashAdvanceService := cashadvance.NewService(fundRepo, txManager)
	reportsService := reports.NewService(salesRepo, fundRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		Logger:             log,
		JWTValidator:       jwtService,
		AuthService:        authService,
		ProductService:     productService,
		SettingsService:    settingsService,
		SalesService:       salesService,
		CashAdvanceService: cashAdvanceService,
		ReportsService:     reportsService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
