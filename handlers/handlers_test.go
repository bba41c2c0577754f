package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecofinds_backend/models"
	"ecofinds_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp builds a Fiber app over an in-memory database with the same
// route wiring as main.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	require.NoError(t, err)

	app := fiber.New()

	authHandler := NewAuthHandler(db, time.Hour)
	productHandler := NewProductHandler(db)
	cartHandler := NewCartHandler(db)
	orderHandler := NewOrderHandler(db)
	categoryHandler := NewCategoryHandler()

	api := app.Group("/api")

	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/products", productHandler.GetAllProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/categories", categoryHandler.GetCategories)

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

	return app, db
}

// createTestUser inserts a user and returns it with a valid bearer token.
func createTestUser(t *testing.T, db *gorm.DB, email, name string) (models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("testpassword")
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, time.Hour)
	require.NoError(t, err)

	return user, token
}

// createTestProduct inserts an active product owned by seller.
func createTestProduct(t *testing.T, db *gorm.DB, sellerID uint, name string, price float64) models.Product {
	t.Helper()

	product := models.Product{
		SellerID:    sellerID,
		Name:        name,
		Description: "test description",
		Price:       price,
		Category:    "Electronics",
		Condition:   "used",
		Status:      models.ProductStatusActive,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// doRequest performs a JSON request against the app and decodes the response
// body into out (when out is non-nil).
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}

	return resp
}
