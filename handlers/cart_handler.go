package handlers

import (
	"errors"
	"strconv"
	"time"

	"ecofinds_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{DB: db}
}

// AddToCartRequest
type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CartItemResponse carries the line together with current product details.
// Prices come from the product row at read time, never from storage.
type CartItemResponse struct {
	ID              uint      `json:"id"`
	ProductID       uint      `json:"product_id"`
	Quantity        int       `json:"quantity"`
	AddedAt         time.Time `json:"added_at"`
	ProductName     string    `json:"product_name"`
	ProductPrice    float64   `json:"product_price"`
	ProductImageURL string    `json:"product_image_url"`
	TotalPrice      float64   `json:"total_price"`
}

// primaryImageURL returns the product's primary image URL, or "" if it has
// no images.
func primaryImageURL(db *gorm.DB, productID uint) string {
	var image models.ProductImage
	err := db.Where("product_id = ? AND is_primary = ?", productID, true).First(&image).Error
	if err != nil {
		return ""
	}
	return image.ImageURL
}

// getOrCreateCart returns the user's cart, creating an empty one on first
// access.
func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart - GET /api/cart
//
// Lines pointing at products that are gone or no longer active are dropped
// on read, so the cart heals itself after a sale or delisting elsewhere.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	cart, err := getOrCreateCart(h.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch cart"})
	}

	var cartItems []models.CartItem
	if err := h.DB.Where("cart_id = ?", cart.ID).Find(&cartItems).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch cart"})
	}

	items := make([]CartItemResponse, 0, len(cartItems))
	totalAmount := 0.0
	totalItems := 0

	for _, item := range cartItems {
		var product models.Product
		err := h.DB.First(&product, item.ProductID).Error
		if err != nil || product.Status != models.ProductStatusActive {
			h.DB.Delete(&models.CartItem{}, item.ID)
			continue
		}

		itemTotal := product.Price * float64(item.Quantity)

		items = append(items, CartItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			AddedAt:         item.AddedAt,
			ProductName:     product.Name,
			ProductPrice:    product.Price,
			ProductImageURL: primaryImageURL(h.DB, product.ID),
			TotalPrice:      itemTotal,
		})

		totalAmount += itemTotal
		totalItems += item.Quantity
	}

	return c.JSON(fiber.Map{
		"id":           cart.ID,
		"items":        items,
		"total_items":  totalItems,
		"total_amount": totalAmount,
	})
}

// AddToCart - POST /api/cart
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quantity must be positive"})
	}

	var product models.Product
	if err := h.DB.Where("id = ? AND status = ?", req.ProductID, models.ProductStatusActive).
		First(&product).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found or not available"})
	}

	// Sellers cannot buy their own listing
	if product.SellerID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot add your own product to cart"})
	}

	cart, err := getOrCreateCart(h.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
	}

	// One line per product: repeated adds accumulate quantity
	var existing models.CartItem
	err = h.DB.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&existing).Error
	if err == nil {
		existing.Quantity += req.Quantity
		if err := h.DB.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
		}
	} else {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
	}

	return c.JSON(fiber.Map{"message": "Product added to cart successfully"})
}

// RemoveFromCart - DELETE /api/cart/:productId
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	productID, _ := strconv.Atoi(c.Params("productId"))

	var cart models.Cart
	if err := h.DB.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart not found"})
	}

	var item models.CartItem
	if err := h.DB.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found in cart"})
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
	}

	return c.JSON(fiber.Map{"message": "Product removed from cart successfully"})
}
