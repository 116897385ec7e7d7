package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"buyerlead_backend/internal/controller"
	"buyerlead_backend/internal/middleware"
	"buyerlead_backend/internal/model"
	"buyerlead_backend/pkg/config"
	"buyerlead_backend/pkg/cron"
	"buyerlead_backend/pkg/database"
	"buyerlead_backend/pkg/ratelimit"
)

func setupRoutes(app *fiber.App, limiter ratelimit.Limiter) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Buyer lead routes; mutations are rate limited per principal
	buyers := protected.Group("/buyers")
	buyers.Get("/", controller.ListBuyers)
	buyers.Post("/", middleware.CheckRateLimit(limiter), controller.CreateBuyer)
	buyers.Post("/import", controller.ImportBuyers)
	buyers.Get("/export", controller.ExportBuyers)
	buyers.Get("/:id", controller.GetBuyer)
	buyers.Put("/:id", middleware.CheckRateLimit(limiter), controller.UpdateBuyer)
	buyers.Delete("/:id", controller.DeleteBuyer)
	buyers.Put("/:id/status", middleware.CheckRateLimit(limiter), controller.UpdateBuyerStatus)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Buyer{},
		&model.BuyerHistory{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	controller.InitBuyerController(database.GetDB())

	limiter := ratelimit.NewFixedWindow(cfg.RateLimit.Window, cfg.RateLimit.MaxOps)
	cron.InitRateLimitCleanupCron(limiter)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Unhandled error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app, limiter)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
