package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"payments-api/internal/adapters/cache"
	"payments-api/internal/adapters/http/middleware"
	"payments-api/internal/adapters/http/routes"
	"payments-api/internal/adapters/notify"
	"payments-api/internal/adapters/persistence/models"
	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"
	"payments-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "payments-api/docs" // Swagger docs
)

// @title Payments API
// @version 1.0
// @description Payment records processed through a simulated gateway.

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if cfg.SeedDemo {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed data: %v", err)
		}
	}

	// Notification delivery
	notifier, closeNotifier := buildNotifier(cfg)
	defer closeNotifier()

	dispatcher := services.NewOutboxDispatcher(repositories.NewOutboxRepository(db), notifier, cfg.Outbox)
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("❌ Failed to start outbox dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	// Listing cache
	var listCache services.PaymentListCache = services.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, listing cache disabled: %v", err)
		} else {
			defer rdb.Close()
			listCache = cache.NewPaymentListCache(rdb, cfg.Redis.TTL)
			log.Printf("✅ Redis listing cache enabled [%s]", cfg.Redis.Addr)
		}
	}

	gateway := services.NewSimulatedGateway(cfg.Gateway.Delay, cfg.Gateway.ApprovalRate, services.RandomOutcome())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Payments API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, routes.Deps{
		Gateway: gateway,
		Cache:   listCache,
		Outbox:  dispatcher,
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// buildNotifier assembles the configured delivery channels. With none
// configured notifications go to the log.
func buildNotifier(cfg *config.Config) (services.Notifier, func()) {
	var (
		channels notify.Multi
		closers  []func()
	)

	if cfg.Mail.Host != "" {
		channels = append(channels, notify.NewMailNotifier(cfg.Mail))
		log.Printf("✅ Email notifications enabled [%s:%d]", cfg.Mail.Host, cfg.Mail.Port)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := notify.NewKafkaProducer(cfg.Kafka)
		if err != nil {
			log.Printf("⚠️ Kafka unavailable, publishing disabled: %v", err)
		} else {
			kn := notify.NewKafkaNotifier(producer, cfg.Kafka.Topic)
			channels = append(channels, kn)
			closers = append(closers, func() {
				if err := kn.Close(); err != nil {
					log.Printf("❌ Error closing Kafka producer: %v", err)
				}
			})
			log.Printf("✅ Kafka notifications enabled [topic: %s]", cfg.Kafka.Topic)
		}
	}

	if len(channels) == 0 {
		log.Println("⚠️ No notification channel configured, logging notifications only")
		channels = append(channels, notify.LogNotifier{})
	}

	return channels, func() {
		for _, c := range closers {
			c()
		}
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
