package main

import (
	"log"
	"os"
	"time"

	"ecofinds_backend/config"
	"ecofinds_backend/handlers"
	"ecofinds_backend/middleware"
	"ecofinds_backend/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg := config.LoadConfig()

	db := config.ConnectDatabase(cfg)

	if os.Getenv("DB_RESET") == "true" {
		if err := config.ResetAndMigrate(db); err != nil {
			log.Fatal("Failed to reset database:", err)
		}
	} else {
		if err := config.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	tokenTTL, err := time.ParseDuration(cfg.JWTExpiration)
	if err != nil {
		log.Printf("Invalid JWT_EXPIRES_IN %q, falling back to 72h", cfg.JWTExpiration)
		tokenTTL = 72 * time.Hour
	}

	app := fiber.New(fiber.Config{
		AppName:      "EcoFinds Backend",
		ServerHeader: "EcoFinds Backend Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Static hosting for uploaded product images
	app.Static("/uploads", "./uploads")

	authHandler := handlers.NewAuthHandler(db, tokenTTL)
	productHandler := handlers.NewProductHandler(db)
	cartHandler := handlers.NewCartHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	categoryHandler := handlers.NewCategoryHandler()
	uploadHandler := handlers.NewUploadHandler("./uploads/products")

	api := app.Group("/api")

	// Public routes
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/products", productHandler.GetAllProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/categories", categoryHandler.GetCategories)

	// Protected routes
	api.Get("/auth/me", utils.AuthMiddleware, authHandler.Me)
	api.Put("/auth/me", utils.AuthMiddleware, authHandler.UpdateMe)
	api.Post("/products", utils.AuthMiddleware, productHandler.CreateProduct)
	api.Put("/products/:id", utils.AuthMiddleware, productHandler.UpdateProduct)
	api.Delete("/products/:id", utils.AuthMiddleware, productHandler.DeleteProduct)
	api.Get("/users/me/products", utils.AuthMiddleware, productHandler.GetMyProducts)
	api.Get("/cart", utils.AuthMiddleware, cartHandler.GetCart)
	api.Post("/cart", utils.AuthMiddleware, cartHandler.AddToCart)
	api.Delete("/cart/:productId", utils.AuthMiddleware, cartHandler.RemoveFromCart)
	api.Post("/orders", utils.AuthMiddleware, orderHandler.CreateOrder)
	api.Get("/orders", utils.AuthMiddleware, orderHandler.GetOrders)
	api.Post("/upload", utils.AuthMiddleware, uploadHandler.UploadImage)

	middleware.SetupNotFoundHandler(app)

	log.Printf("🚀 Server starting on host %s in port %s mode", cfg.HOST, cfg.AppPort)

	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
