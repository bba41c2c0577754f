package handlers

import (
	"errors"
	"fmt"
	"time"

	"ecofinds_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB *gorm.DB
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{DB: db}
}

var (
	errCartNotFound       = errors.New("cart not found")
	errCartEmpty          = errors.New("cart is empty")
	errProductUnavailable = errors.New("product no longer available")
)

// CheckoutRequest
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
	ShippingCountry string `json:"shipping_country"`
}

// OrderItemResponse is the item snapshot with denormalized product details.
type OrderItemResponse struct {
	ID              uint    `json:"id"`
	ProductID       uint    `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PricePerUnit    float64 `json:"price_per_unit"`
	TotalPrice      float64 `json:"total_price"`
	ProductName     string  `json:"product_name"`
	ProductImageURL string  `json:"product_image_url"`
}

type OrderResponse struct {
	ID              uint                `json:"id"`
	Status          string              `json:"status"`
	TotalAmount     float64             `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingCity    string              `json:"shipping_city"`
	ShippingState   string              `json:"shipping_state"`
	ShippingZip     string              `json:"shipping_zip"`
	ShippingCountry string              `json:"shipping_country"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []OrderItemResponse `json:"items"`
}

func (h *OrderHandler) toOrderResponse(order models.Order) OrderResponse {
	var orderItems []models.OrderItem
	h.DB.Where("order_id = ?", order.ID).Find(&orderItems)

	items := make([]OrderItemResponse, 0, len(orderItems))
	for _, item := range orderItems {
		productName := "Product no longer available"
		imageURL := ""

		var product models.Product
		if err := h.DB.First(&product, item.ProductID).Error; err == nil {
			productName = product.Name
			imageURL = primaryImageURL(h.DB, product.ID)
		}

		items = append(items, OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PricePerUnit:    item.PricePerUnit,
			TotalPrice:      item.PricePerUnit * float64(item.Quantity),
			ProductName:     productName,
			ProductImageURL: imageURL,
		})
	}

	return OrderResponse{
		ID:              order.ID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		ShippingState:   order.ShippingState,
		ShippingZip:     order.ShippingZip,
		ShippingCountry: order.ShippingCountry,
		CreatedAt:       order.CreatedAt,
		Items:           items,
	}
}

// CreateOrder - POST /api/orders
//
// Converts the cart into an order as one transaction. If any line's product
// is no longer active the whole checkout is rejected: no order, no item
// snapshots, no status flips. The sold transition is a guarded update so two
// concurrent checkouts cannot both claim the same product.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	var order models.Order

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return errCartNotFound
		}

		var cartItems []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return errCartEmpty
		}

		// Re-validate every line and compute the total before writing
		// anything.
		totalAmount := 0.0
		lineProducts := make([]models.Product, 0, len(cartItems))
		for _, item := range cartItems {
			var product models.Product
			err := tx.First(&product, item.ProductID).Error
			if err != nil || product.Status != models.ProductStatusActive {
				return fmt.Errorf("product %d: %w", item.ProductID, errProductUnavailable)
			}
			totalAmount += product.Price * float64(item.Quantity)
			lineProducts = append(lineProducts, product)
		}

		order = models.Order{
			UserID:          userID,
			Status:          models.OrderStatusProcessing,
			TotalAmount:     totalAmount,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingState:   req.ShippingState,
			ShippingZip:     req.ShippingZip,
			ShippingCountry: req.ShippingCountry,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i, item := range cartItems {
			orderItem := models.OrderItem{
				OrderID:      order.ID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				PricePerUnit: lineProducts[i].Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			// Guarded flip: only an active product can become sold. If a
			// concurrent checkout got there first, RowsAffected is 0 and the
			// whole transaction rolls back.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND status = ?", item.ProductID, models.ProductStatusActive).
				Update("status", models.ProductStatusSold)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", item.ProductID, errProductUnavailable)
			}
		}

		// Clear the cart
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errCartNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart not found"})
		case errors.Is(err, errCartEmpty):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cart is empty"})
		case errors.Is(err, errProductUnavailable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create order"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(h.toOrderResponse(order))
}

// GetOrders - GET /api/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var orders []models.Order
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch orders"})
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, h.toOrderResponse(order))
	}

	return c.JSON(responses)
}
