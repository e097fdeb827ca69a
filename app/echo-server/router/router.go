package router

import (
	"shopRadar/internal/middleware"
	"shopRadar/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupOwnerRoutes(api *echo.Group, handler *rest.OwnerHandler) {
	owners := api.Group("/owners")

	owners.GET("/email-verification/:code", handler.VerifyEmail)
	owners.POST("/register", handler.Register)
	owners.POST("/login", handler.Login)

	owners.GET("/me", handler.Me, middleware.AuthMiddleware())
}

func SetupSiteRoutes(api *echo.Group, handler *rest.SiteHandler) {
	sites := api.Group("/sites", middleware.AuthMiddleware())

	sites.POST("", handler.Connect)
	sites.GET("", handler.GetAll)
	sites.DELETE("/:id", handler.Deactivate)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products", middleware.AuthMiddleware())

	products.GET("", handler.GetAll)
	products.GET("/:id", handler.GetByID)
}

// SetupTrackingRoutes wires the endpoints the snippet calls. These are
// authenticated by site API key, not by owner JWT.
func SetupTrackingRoutes(api *echo.Group, handler *rest.TrackingHandler, apiKeyRequired echo.MiddlewareFunc) {
	api.POST("/track", handler.Track, apiKeyRequired)
	api.GET("/variant", handler.Variant, apiKeyRequired)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler) {
	stats := api.Group("/analytics", middleware.AuthMiddleware())

	stats.GET("/overview", handler.Overview)
	stats.GET("/daily", handler.DailyEvents)
	stats.GET("/funnel", handler.Funnel)
	stats.GET("/segments", handler.Segments)
	stats.GET("/market-basket", handler.MarketBasket)
	stats.GET("/cohorts", handler.Cohorts)
	stats.GET("/products/:id", handler.ProductSummary)
	stats.GET("/products/:id/forecast", handler.Forecast)
	stats.GET("/ab-tests/:id/results", handler.TestResults)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())

	reco.GET("", handler.GetActive)
	reco.POST("/refresh", handler.Refresh)
	reco.POST("/products/:id/evaluate", handler.EvaluateProduct)
}

func SetupABTestRoutes(api *echo.Group, handler *rest.ABTestHandler) {
	tests := api.Group("/ab-tests", middleware.AuthMiddleware())

	tests.POST("", handler.Create)
	tests.GET("", handler.GetAll)
	tests.POST("/:id/stop", handler.Stop)
}
