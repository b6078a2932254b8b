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
	"go.uber.org/zap"

	"github.com/hyttelaget/cabin-booking/internal/application"
	"github.com/hyttelaget/cabin-booking/internal/config"
	"github.com/hyttelaget/cabin-booking/internal/events"
	"github.com/hyttelaget/cabin-booking/internal/handler"
	"github.com/hyttelaget/cabin-booking/internal/platform/auth"
	"github.com/hyttelaget/cabin-booking/internal/platform/database"
	"github.com/hyttelaget/cabin-booking/internal/platform/health"
	"github.com/hyttelaget/cabin-booking/internal/platform/logger"
	"github.com/hyttelaget/cabin-booking/internal/platform/middleware"
	"github.com/hyttelaget/cabin-booking/internal/repository"
)

const serviceName = "cabin-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting cabin-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.CabinModel{},
			&repository.UserProfileModel{},
			&repository.BookingModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.Database.URL(), cfg.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize token verifier
	verifier := auth.NewVerifier(cfg.JWTSecret)

	// Initialize Kafka event publisher
	publisher := events.NewPublisher(cfg.KafkaBrokers, serviceName, log)
	defer func() { _ = publisher.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	cabinRepo := repository.NewGormCabinRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)

	// Initialize application services
	profileService := application.NewProfileService(profileRepo, log)
	bookingService := application.NewBookingService(bookingRepo, cabinRepo, profileRepo, publisher, log)
	cabinService := application.NewCabinService(cabinRepo, bookingRepo, log)
	statisticsService := application.NewStatisticsService(bookingRepo, cabinRepo, profileRepo, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	cabinHandler := handler.NewCabinHandler(cabinService)
	userHandler := handler.NewUserHandler(profileService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	authMW := middleware.Auth(verifier, profileService, log)
	adminMW := middleware.RequireAdmin()

	api := router.Group("/api/v1")
	bookingHandler.RegisterRoutes(api, authMW, adminMW)
	cabinHandler.RegisterRoutes(api, authMW, adminMW)
	userHandler.RegisterRoutes(api, authMW, adminMW)
	statisticsHandler.RegisterRoutes(api, authMW)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down cabin-booking...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("cabin-booking stopped")
}
