package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"shopTrace/app/echo-server/router"
	"shopTrace/business/analytics"
	"shopTrace/business/auth"
	"shopTrace/business/behavior"
	"shopTrace/business/product"
	"shopTrace/business/recommend"
	"shopTrace/business/tracking"
	"shopTrace/internal/middleware"
	psqlRepo "shopTrace/internal/repository/postgres"
	redisRepo "shopTrace/internal/repository/redis"
	"shopTrace/internal/rest"
	"shopTrace/pkg/config"
	"shopTrace/pkg/database"
	redisdb "shopTrace/pkg/database/redis"
	"shopTrace/pkg/logger"
	"shopTrace/pkg/metrics"
	"shopTrace/pkg/utils"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ShopTrace", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional: without it profile reads just hit postgres.
	var redisClient *redis.Client
	var behaviorCache behavior.ProfileCache
	var trackingCache tracking.ProfileCache
	redisClient, err = redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, profile cache disabled", "error", err.Error())
		redisClient = nil
	} else {
		profileCache := redisRepo.NewProfileCache(redisClient)
		behaviorCache = profileCache
		trackingCache = profileCache
	}

	// Init repo
	sessionRepo := psqlRepo.NewSessionRepository(db)
	eventRepo := psqlRepo.NewEventRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	analyticsRepo := psqlRepo.NewAnalyticsRepository(db)
	adminRepo := psqlRepo.NewAdminRepository(db)

	// Init service
	behaviorService := behavior.NewService(sessionRepo, eventRepo, profileRepo, behaviorCache, behavior.DefaultScoreConfig())
	trackingService := tracking.NewService(sessionRepo, eventRepo, analyticsRepo, profileRepo, trackingCache, behaviorService)
	recommendService := recommend.NewService(eventRepo, analyticsRepo)
	productService := product.NewProductService(productRepo, analyticsRepo)
	authService := auth.NewAuthService(adminRepo)
	analyticsService := analytics.NewAnalyticsService(sessionRepo, eventRepo, productRepo, analyticsRepo, profileRepo)

	// Init handler
	productHandler := rest.NewProductHandler(productService, trackingService)
	trackingHandler := rest.NewTrackingHandler(trackingService)
	recommendHandler := rest.NewRecommendHandler(recommendService, productService)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsService)
	authHandler := rest.NewAuthHandler(authService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.SessionHeaderName},
		AllowCredentials: true,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1", middleware.SessionMiddleware(trackingService))
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupTrackingRoutes(api, trackingHandler)
	router.SetupRecommendRoutes(api, recommendHandler)
	router.SetupAnalyticsRoutes(api, analyticsHandler, authRequired, adminOnly)
	router.SetupAuthRoutes(api, authHandler, authRequired, adminOnly)

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

	if redisClient != nil {
		redisdb.CloseRedisClient(redisClient)
	}

	logger.Info("Server stopped")
}
