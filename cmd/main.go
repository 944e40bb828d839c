package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"directory-service/internal/cache"
	"directory-service/internal/config"
	"directory-service/internal/database/mongo"
	"directory-service/internal/database/redis"
	"directory-service/internal/event"
	"directory-service/internal/handlers"
	"directory-service/internal/platform"
	"directory-service/internal/reporsitory"
	"directory-service/internal/service"
	"directory-service/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/evolvia", "log", "directory_service")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Printf("Could not set up file logging, staying on stderr: %v", err)
	} else {
		defer logFile.Close()
	}

	cfg := config.ServiceConfig

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Directory Service is healthy")
	})

	// Initialize repositories
	profileRepo := reporsitory.NewProfileRepository(mongo.Mongo_Database)
	settingsRepo := reporsitory.NewSettingsRepository(mongo.Mongo_Database)

	// Create database indexes
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := profileRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create profile indexes: %v", err)
	}
	if err := settingsRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create settings indexes: %v", err)
	}
	cancel()

	directoryCache := cache.NewDirectoryCache(redis.Redis_Client)
	platformClient := platform.NewClient(cfg.Platform)

	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
		eventPublisher = &event.EventPublisher{}
	}

	// Initialize services
	profileService := service.NewProfileService(profileRepo, directoryCache, eventPublisher, platformClient, platformClient, platformClient, cfg.Platform.EffectsTimeout)
	directoryService := service.NewDirectoryService(profileRepo, settingsRepo, directoryCache)
	settingsService := service.NewSettingsService(settingsRepo)
	premiumService := service.NewPremiumService(profileRepo, directoryCache, eventPublisher, platformClient, cfg.Payout)

	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, cfg.RabbitMQ.QueueName, premiumService, profileService)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			defer eventConsumer.Close()
		}
	}

	// Initialize and register handlers
	profileHandler := handlers.NewProfileHandler(profileService, directoryService)
	profileHandler.RegisterRoutes(app)

	settingsHandler := handlers.NewSettingsHandler(settingsService, profileService, platformClient, cfg.Platform.AccessTimeout)
	settingsHandler.RegisterRoutes(app)

	webhookHandler := handlers.NewWebhookHandler(premiumService)
	webhookHandler.RegisterRoutes(app)

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Close event publisher
	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	redis.CloseRedis()
	mongo.DisconnectMongo()

	// Deregister from service discovery
	if discovery.ServiceDiscovery != nil {
		if err := discovery.ServiceDiscovery.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
