package main

import (
	"context"
	"log"
	"time"

	"shipment-tracker/internal/core/auth"
	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/server"
	geoadapter "shipment-tracker/internal/features/geocoding/adapters"
	notifadapter "shipment-tracker/internal/features/notifications/adapters"
	notifports "shipment-tracker/internal/features/notifications/ports"
	notifservice "shipment-tracker/internal/features/notifications/service"
	shipadapters "shipment-tracker/internal/features/shipments/adapters"
	shiphandler "shipment-tracker/internal/features/shipments/handler"
	shipservice "shipment-tracker/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title Shipment Tracker API
// @version 1.0
// @description Courier shipment tracking with checkpoint history and live notifications.
// @contact.name API Support
// @contact.email support@shipment-tracker.local
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Redis and run Health Check
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(opts)

	repo := shipadapters.NewRedisShipmentRepository(redisClient)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := repo.Ping(ctx); err != nil {
		cancel()
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	cancel()
	l.Info("Redis connection verified")

	// Initialize Geocoder with a cache in front of Nominatim
	geocodeTimeout := time.Duration(cfg.Geocoder.TimeoutMS) * time.Millisecond
	nominatim := geoadapter.NewNominatimAdapter(cfg.Geocoder.URL, geocodeTimeout)
	var geocodeCache cache.Cache
	if cfg.Geocoder.CacheBackend == "redis" {
		geocodeCache = cache.NewRedisAdapter(redisClient)
	} else {
		geocodeCache = cache.NewMemoryAdapter(cfg.Geocoder.CacheMaxEntries, time.Now)
	}
	geocoder := geoadapter.NewCachedGeocoder(nominatim, geocodeCache,
		time.Duration(cfg.Geocoder.CacheTTLSeconds)*time.Second)

	// Initialize Notification Fan-out
	var emailSender notifports.EmailSender
	if cfg.Mail.APIKey != "" {
		emailSender = notifadapter.NewSendGridAdapter(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	} else {
		emailSender = notifadapter.NewDisabledSender()
		l.Warn("SENDGRID_API_KEY not set, email notifications disabled")
	}
	eventBus := notifadapter.NewRedisEventBus(redisClient)
	notifier := notifservice.NewNotifier(emailSender, eventBus)

	// Initialize Shipment Service & Handlers
	shipmentSvc := shipservice.NewShipmentService(repo, geocoder, notifier, geocodeTimeout)
	shipmentHdl := shiphandler.NewShipmentHandler(shipmentSvc)
	trackingHdl := shiphandler.NewTrackingHandler(shipmentSvc, eventBus)

	srv := server.New(cfg)
	srv.App.Use(auth.Middleware(cfg.Auth.JWTSecret))

	// Register Routes
	srv.App.Post("/shipments", auth.RequireAdmin(), shipmentHdl.Create)
	srv.App.Get("/shipments", auth.RequireAuth(), shipmentHdl.List)
	srv.App.Get("/shipments/:id", auth.RequireAuth(), shipmentHdl.Get)
	srv.App.Patch("/shipments/:id", auth.RequireAdmin(), shipmentHdl.Update)
	srv.App.Delete("/shipments/:id", auth.RequireAdmin(), shipmentHdl.Delete)
	srv.App.Post("/shipments/:id/checkpoints", auth.RequireAdmin(), shipmentHdl.AppendCheckpoint)

	srv.App.Get("/track/:code", trackingHdl.Track)
	srv.App.Get("/track/:code/stream", trackingHdl.Stream)

	srv.App.Get("/health", func(c *fiber.Ctx) error {
		if err := repo.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
