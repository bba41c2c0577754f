package handlers

import (
	"strconv"
	"strings"
	"time"

	"ecofinds_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateProductRequest
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	EcoRating   *int     `json:"eco_rating"`
	EcoDetails  string   `json:"eco_details"`
	ImageURLs   []string `json:"image_urls"`
}

// UpdateProductRequest - only provided fields change
type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Condition   *string   `json:"condition"`
	EcoRating   *int      `json:"eco_rating"`
	EcoDetails  *string   `json:"eco_details"`
	ImageURLs   *[]string `json:"image_urls"`
}

// ProductResponse denormalizes image URLs and the seller's name onto the
// product for list and detail views.
type ProductResponse struct {
	ID          uint      `json:"id"`
	SellerID    uint      `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	EcoRating   *int      `json:"eco_rating"`
	EcoDetails  string    `json:"eco_details"`
	Status      string    `json:"status"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ImageURLs   []string  `json:"image_urls"`
	SellerName  string    `json:"seller_name"`
}

func toProductResponse(p models.Product) ProductResponse {
	imageURLs := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		imageURLs = append(imageURLs, img.ImageURL)
	}

	return ProductResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Condition:   p.Condition,
		EcoRating:   p.EcoRating,
		EcoDetails:  p.EcoDetails,
		Status:      p.Status,
		Views:       p.Views,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		ImageURLs:   imageURLs,
		SellerName:  p.Seller.Name,
	}
}

// GetAllProducts - GET /api/products
//
// Cursor pagination over created_at, newest first. The cursor is the RFC3339
// timestamp of the last item on the previous page.
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	query := h.DB.Preload("Images").Preload("Seller").
		Where("status = ?", models.ProductStatusActive)

	// Filter by Category
	if category := c.Query("category"); category != "" {
		if !models.IsValidCategory(category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category"})
		}
		query = query.Where("category = ?", category)
	}

	// Search by Name
	if q := c.Query("q"); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	// Cursor
	if cursor := c.Query("cursor"); cursor != "" {
		cursorTime, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid cursor format"})
		}
		query = query.Where("created_at < ?", cursorTime)
	}

	limit := c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	// Fetch one extra row to decide has_more without a count query.
	var products []models.Product
	if err := query.Order("created_at desc").Limit(limit + 1).Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}

	var nextCursor *string
	if hasMore && len(products) > 0 {
		cur := products[len(products)-1].CreatedAt.Format(time.RFC3339Nano)
		nextCursor = &cur
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}

	return c.JSON(fiber.Map{
		"products":    responses,
		"next_cursor": nextCursor,
		"has_more":    hasMore,
	})
}

// GetProduct - GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))

	var product models.Product
	if err := h.DB.Preload("Images").Preload("Seller").
		Where("id = ? AND status = ?", id, models.ProductStatusActive).
		First(&product).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	// Each detail read counts a view
	if err := h.DB.Model(&product).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch product"})
	}
	product.Views++

	return c.JSON(toProductResponse(product))
}

// CreateProduct - POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if !models.IsValidCategory(req.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category. Must be one of: " + strings.Join(models.Categories, ", "),
		})
	}
	if req.EcoRating != nil && (*req.EcoRating < 1 || *req.EcoRating > 5) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Eco rating must be between 1 and 5"})
	}
	if req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be greater than zero"})
	}

	product := models.Product{
		SellerID:    userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		EcoRating:   req.EcoRating,
		EcoDetails:  req.EcoDetails,
		Status:      models.ProductStatusActive,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create product"})
	}

	// First image is primary
	for i, url := range req.ImageURLs {
		image := models.ProductImage{
			ProductID: product.ID,
			ImageURL:  url,
			IsPrimary: i == 0,
		}
		if err := h.DB.Create(&image).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create product"})
		}
		product.Images = append(product.Images, image)
	}

	h.DB.First(&product.Seller, userID)

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// UpdateProduct - PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	// Check ownership
	if product.SellerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to update this product"})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	// Only provided fields change
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be greater than zero"})
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid category. Must be one of: " + strings.Join(models.Categories, ", "),
			})
		}
		product.Category = *req.Category
	}
	if req.Condition != nil {
		product.Condition = *req.Condition
	}
	if req.EcoRating != nil {
		if *req.EcoRating < 1 || *req.EcoRating > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Eco rating must be between 1 and 5"})
		}
		product.EcoRating = req.EcoRating
	}
	if req.EcoDetails != nil {
		product.EcoDetails = *req.EcoDetails
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update product"})
	}

	// Image list replacement is full-replace, not merge
	if req.ImageURLs != nil {
		if err := h.DB.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update product"})
		}
		for i, url := range *req.ImageURLs {
			image := models.ProductImage{
				ProductID: product.ID,
				ImageURL:  url,
				IsPrimary: i == 0,
			}
			if err := h.DB.Create(&image).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update product"})
			}
		}
	}

	if err := h.DB.Preload("Images").Preload("Seller").First(&product, product.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update product"})
	}

	return c.JSON(toProductResponse(product))
}

// DeleteProduct - DELETE /api/products/:id
//
// Soft delete: the row stays so order items keep their reference.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	// Check ownership
	if product.SellerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to delete this product"})
	}

	if err := h.DB.Model(&product).Update("status", models.ProductStatusDeleted).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// GetMyProducts - GET /api/users/me/products
func (h *ProductHandler) GetMyProducts(c *fiber.Ctx) error {
	userID, ok := getUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user session"})
	}

	var products []models.Product
	if err := h.DB.Preload("Images").Preload("Seller").
		Where("seller_id = ? AND status != ?", userID, models.ProductStatusDeleted).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch products"})
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}

	return c.JSON(fiber.Map{"products": responses})
}
