package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/data"
	"github.com/codequest-platform/backend/internal/handler"
	"github.com/codequest-platform/backend/internal/infrastructure"
	"github.com/codequest-platform/backend/internal/middleware"
	"github.com/codequest-platform/backend/internal/repository"
	"github.com/codequest-platform/backend/internal/service"
	"github.com/codequest-platform/backend/internal/source"
)

func main() {
	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	config := infrastructure.LoadConfig()

	logger, err := infrastructure.NewLogger(config.Server.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.SyncLogger(logger)

	logger.Info("Starting CodeQuest API",
		zap.String("environment", config.Server.Environment),
		zap.Int("port", config.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	telemetry, err := infrastructure.NewTelemetry(ctx, &config.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		telemetry.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.CreateMetrics()
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		os.Exit(1)
	}

	// Database
	database, err := infrastructure.NewDatabase(&config.Database, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	// Optional Redis hot cache; nil client disables it
	redisClient, err := infrastructure.NewRedisClient(ctx, &config.Redis, logger)
	if err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	problemRepo := repository.NewDailyProblemRepository(database.DB)
	submissionRepo := repository.NewSubmissionRepository(database.DB)
	campaignRepo := repository.NewCampaignRepository(database.DB)
	applicationRepo := repository.NewApplicationRepository(database.DB)

	// Bootstrap admin account
	bootstrap := data.NewBootstrap(userRepo, logger)
	if err := bootstrap.EnsureAdmin(&config.Bootstrap); err != nil {
		logger.Error("Failed to bootstrap admin", zap.Error(err))
		os.Exit(1)
	}

	// External problem catalog
	sourceClient := source.NewClient(&source.Config{
		BaseURL:  config.Source.BaseURL,
		Category: config.Source.Category,
		Timeout:  config.Source.Timeout,
	}, logger)

	// Services
	userService := service.NewUserService(userRepo, &config.JWT, telemetry.Tracer, logger)
	challengeService := service.NewChallengeService(
		problemRepo,
		sourceClient,
		redisClient,
		config.Redis.CacheTTL,
		config.Source.Category,
		telemetry.Tracer,
		logger,
	)
	submissionService := service.NewSubmissionService(submissionRepo, userRepo, problemRepo, telemetry.Tracer, logger)
	reviewService := service.NewReviewService(submissionRepo, userRepo, problemRepo, telemetry.Tracer, logger)
	campaignService := service.NewCampaignService(campaignRepo, applicationRepo, userRepo, telemetry.Tracer, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	adminHandler := handler.NewAdminHandler(submissionService, reviewService, campaignService)

	if config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	router.Use(middleware.TracingMiddleware(telemetry.Tracer))
	router.Use(middleware.MetricsMiddleware(metrics))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": config.Telemetry.ServiceVersion,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// The daily challenge is public; submitting requires auth
		api.GET("/challenge/today", challengeHandler.GetToday)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(userService))
		{
			protected.POST("/challenge/submissions", submissionHandler.Submit)
			protected.GET("/challenge/submissions/mine", submissionHandler.GetMine)

			users := protected.Group("/users")
			{
				users.GET("/me", userHandler.GetCurrentUser)
			}

			campaigns := protected.Group("/campaigns")
			{
				campaigns.GET("", campaignHandler.ListCampaigns)
				campaigns.POST("/:id/apply", campaignHandler.Apply)
			}

			// Reviewer routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware(userService))
			{
				admin.GET("/submissions", adminHandler.ListSubmissions)
				admin.POST("/submissions/:id/review", adminHandler.ReviewSubmission)
				admin.POST("/campaigns", adminHandler.CreateCampaign)
				admin.GET("/campaigns/:id/applications", adminHandler.ListApplications)
				admin.POST("/applications/:id/review", adminHandler.ReviewApplication)
			}
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server starting",
			zap.String("address", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
