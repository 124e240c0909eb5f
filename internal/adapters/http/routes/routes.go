package routes

import (
	"payments-api/internal/adapters/http/handlers"
	"payments-api/internal/adapters/http/middleware"
	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"
	"payments-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Deps carries the collaborators built outside the route tree
type Deps struct {
	Gateway services.Gateway
	Cache   services.PaymentListCache
	Outbox  services.Kicker
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, deps Deps) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, deps.Outbox, cfg)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, deps.Gateway, deps.Cache, deps.Outbox, cfg.Payments)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	auth := middleware.AuthMiddleware(authService)

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(cfg), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(cfg), authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", auth, authHandler.Me)

	// Payment routes (authenticated, owner-scoped)
	paymentRoutes := api.Group("/payments", auth, middleware.NoStore())
	paymentRoutes.Get("/", paymentHandler.List)
	paymentRoutes.Post("/", paymentHandler.Create)
	paymentRoutes.Get("/:id", paymentHandler.Get)
	paymentRoutes.Post("/:id/process", paymentHandler.Process)
	paymentRoutes.Delete("/:id", paymentHandler.Delete)
}
