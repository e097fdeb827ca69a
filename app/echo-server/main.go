package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopRadar/app/echo-server/router"
	"shopRadar/business/abtest"
	"shopRadar/business/analytics"
	ownerService "shopRadar/business/owner"
	"shopRadar/business/product"
	"shopRadar/business/recommendation"
	"shopRadar/business/site"
	"shopRadar/business/tracking"
	"shopRadar/internal/middleware"
	"shopRadar/internal/repository/aiadvisor"
	"shopRadar/internal/repository/notification"
	psqlRepo "shopRadar/internal/repository/postgres"
	redisRepo "shopRadar/internal/repository/redis"
	"shopRadar/internal/rest"
	"shopRadar/pkg/config"
	"shopRadar/pkg/database"
	redisdb "shopRadar/pkg/database/redis"
	"shopRadar/pkg/logger"
	"shopRadar/pkg/metrics"
	"shopRadar/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ShopRadar", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional; tracker auth falls back to postgres without it.
	var siteCache site.SiteCache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, site cache disabled", "error", err)
	} else {
		siteCache = redisRepo.NewSiteCacheRepository(redisClient, 5*time.Minute)
		defer redisdb.CloseRedisClient(redisClient)
	}

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// The advisor is optional; a missing URL disables AI suggestions.
	var advisor recommendation.AIAdvisor
	if cfg.AIAdvisor.URL != "" {
		advisor = aiadvisor.NewAIAdvisorRepository(
			aiadvisor.AIAdvisorConfig{
				AIAdvisorURL:    cfg.AIAdvisor.URL,
				AIAdvisorAPIKey: cfg.AIAdvisor.APIKey,
			},
		)
	}

	// Init validate
	validate := validator.New()

	// Init repo
	ownerRepo := psqlRepo.NewOwnerRepository(db)
	siteRepo := psqlRepo.NewSiteRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	customerRepo := psqlRepo.NewCustomerRepository(db)
	eventRepo := psqlRepo.NewEventRepository(db)
	recoRepo := psqlRepo.NewRecommendationRepository(db)
	abTestRepo := psqlRepo.NewABTestRepository(db)

	// Init service
	ownerSvc := ownerService.NewOwnerService(ownerRepo, validate, mailjetEmail, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	siteSvc := site.NewSiteService(siteRepo, siteCache, validate)
	productSvc := product.NewProductService(productRepo)
	trackingSvc := tracking.NewTrackingService(productRepo, customerRepo, eventRepo, abTestRepo)
	analyticsSvc := analytics.NewAnalyticsService(eventRepo, abTestRepo)
	abTestSvc := abtest.NewABTestService(abTestRepo, productRepo, validate)

	recoCfg := recommendation.ConfigFromEnv()
	recoCfg.AITimeout = cfg.AIAdvisor.Timeout
	recoSvc := recommendation.NewRecommendationService(recoCfg, eventRepo, productRepo, recoRepo, ownerRepo, advisor, mailjetEmail)

	// Init handler
	ownerHandler := rest.NewOwnerHandler(ownerSvc)
	siteHandler := rest.NewSiteHandler(siteSvc)
	productHandler := rest.NewProductHandler(productSvc)
	trackingHandler := rest.NewTrackingHandler(trackingSvc)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsSvc)
	recoHandler := rest.NewRecommendationHandler(recoSvc)
	abTestHandler := rest.NewABTestHandler(abTestSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-API-Key"},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupOwnerRoutes(api, ownerHandler)
	router.SetupSiteRoutes(api, siteHandler)
	router.SetupProductRoutes(api, productHandler)
	router.SetupTrackingRoutes(api, trackingHandler, middleware.APIKeyMiddleware(siteSvc))
	router.SetupAnalyticsRoutes(api, analyticsHandler)
	router.SetupRecommendationRoutes(api, recoHandler)
	router.SetupABTestRoutes(api, abTestHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
