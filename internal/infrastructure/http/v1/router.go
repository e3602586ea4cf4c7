// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/domain/auth"
	"puntoventa/internal/domain/cashadvance"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/reports"
	"puntoventa/internal/domain/sales"
	"puntoventa/internal/domain/settings"
	"puntoventa/internal/infrastructure/http/v1/handlers"
	"puntoventa/internal/infrastructure/http/v1/middleware"
	"puntoventa/internal/infrastructure/storage/postgres"
	"puntoventa/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService        *auth.Service
	ProductService     *product.Service
	SettingsService    *settings.Service
	SalesService       *sales.Service
	CashAdvanceService *cashadvance.Service
	ReportsService     *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

		publicAuth := api.Group("/auth")
		protectedAuth := api.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		productHandler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		productHandler.RegisterRoutes(protected.Group("/products"))

		cartHandler := handlers.NewCartHandler(baseHandler, cfg.ProductService, cfg.SettingsService)
		cartHandler.RegisterRoutes(protected.Group("/cart"))

		salesHandler := handlers.NewSalesHandler(baseHandler, cfg.SalesService, cfg.ProductService, cfg.SettingsService)
		salesHandler.RegisterRoutes(protected.Group("/sales"))

		cashAdvanceHandler := handlers.NewCashAdvanceHandler(baseHandler, cfg.CashAdvanceService)
		cashAdvanceHandler.RegisterRoutes(protected.Group("/funds"))

		settingsHandler := handlers.NewSettingsHandler(baseHandler, cfg.SettingsService)
		settingsHandler.RegisterRoutes(protected.Group("/settings"))

		// Reports are admin-only.
		reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.ReportsService)
		reportsGroup := protected.Group("/reports")
		reportsGroup.Use(middleware.RequireRole(appctx.RoleAdmin))
		reportsHandler.RegisterRoutes(reportsGroup)
	}

	return router
}
