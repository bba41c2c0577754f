package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"ecofinds_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productListBody struct {
	Products   []ProductResponse `json:"products"`
	NextCursor *string           `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

func TestGetAllProducts_OnlyActiveVisible(t *testing.T) {
	app, db := setupTestApp(t)
	seller, _ := createTestUser(t, db, "seller@example.com", "Seller")

	active := createTestProduct(t, db, seller.ID, "Visible", 10)

	for _, status := range []string{
		models.ProductStatusSold,
		models.ProductStatusDraft,
		models.ProductStatusDeleted,
	} {
		p := createTestProduct(t, db, seller.ID, "Hidden "+status, 10)
		require.NoError(t, db.Model(&p).Update("status", status).Error)
	}

	var body productListBody
	resp := doRequest(t, app, "GET", "/api/products", "", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, body.Products, 1)
	assert.Equal(t, active.ID, body.Products[0].ID)
	assert.False(t, body.HasMore)
	assert.Nil(t, body.NextCursor)
}

func TestGetAllProducts_FilterAndSearch(t *testing.T) {
	app, db := setupTestApp(t)
	seller, _ := createTestUser(t, db, "seller@example.com", "Seller")

	laptop := createTestProduct(t, db, seller.ID, "Refurbished Laptop", 100)
	book := createTestProduct(t, db, seller.ID, "Gardening Book", 5)
	require.NoError(t, db.Model(&book).Update("category", "Books").Error)

	var body productListBody
	resp := doRequest(t, app, "GET", "/api/products?category=Books", "", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Products, 1)
	assert.Equal(t, book.ID, body.Products[0].ID)

	// Case-insensitive substring search on name
	resp = doRequest(t, app, "GET", "/api/products?q=laptop", "", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Products, 1)
	assert.Equal(t, laptop.ID, body.Products[0].ID)

	// Unknown category is rejected, not silently ignored
	resp = doRequest(t, app, "GET", "/api/products?category=Nonsense", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAllProducts_CursorPagination(t *testing.T) {
	app, db := setupTestApp(t)
	seller, _ := createTestUser(t, db, "seller@example.com", "Seller")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 21; i++ {
		product := models.Product{
			SellerID:    seller.ID,
			Name:        fmt.Sprintf("Item %02d", i),
			Description: "d",
			Price:       10,
			Category:    "Other",
			Condition:   "used",
			Status:      models.ProductStatusActive,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&product).Error)
	}

	var page productListBody
	resp := doRequest(t, app, "GET", "/api/products?limit=20", "", nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, page.Products, 20)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)

	// Newest first
	assert.Equal(t, "Item 20", page.Products[0].Name)
	assert.Equal(t, "Item 01", page.Products[19].Name)

	// Resupplying the cursor yields the remaining item
	var rest productListBody
	resp = doRequest(t, app, "GET", "/api/products?limit=20&cursor="+url.QueryEscape(*page.NextCursor), "", nil, &rest)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, rest.Products, 1)
	assert.Equal(t, "Item 00", rest.Products[0].Name)
	assert.False(t, rest.HasMore)
	assert.Nil(t, rest.NextCursor)
}

func TestGetAllProducts_InvalidCursor(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doRequest(t, app, "GET", "/api/products?cursor=not-a-timestamp", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProduct_IncrementsViews(t *testing.T) {
	app, db := setupTestApp(t)
	seller, _ := createTestUser(t, db, "seller@example.com", "Seller")
	product := createTestProduct(t, db, seller.ID, "Counted", 10)

	var first ProductResponse
	resp := doRequest(t, app, "GET", fmt.Sprintf("/api/products/%d", product.ID), "", nil, &first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, first.Views)

	var second ProductResponse
	doRequest(t, app, "GET", fmt.Sprintf("/api/products/%d", product.ID), "", nil, &second)
	assert.Equal(t, 2, second.Views)
}

func TestGetProduct_InactiveNotFound(t *testing.T) {
	app, db := setupTestApp(t)
	seller, _ := createTestUser(t, db, "seller@example.com", "Seller")
	product := createTestProduct(t, db, seller.ID, "Gone", 10)
	require.NoError(t, db.Model(&product).Update("status", models.ProductStatusDeleted).Error)

	resp := doRequest(t, app, "GET", fmt.Sprintf("/api/products/%d", product.ID), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/products/99999", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProduct(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createTestUser(t, db, "seller@example.com", "Seller")

	rating := 4
	var created ProductResponse
	resp := doRequest(t, app, "POST", "/api/products", token, map[string]interface{}{
		"name":        "Bamboo Cup",
		"description": "Reusable cup",
		"price":       12.50,
		"category":    "Home & Garden",
		"condition":   "new",
		"eco_rating":  rating,
		"image_urls":  []string{"/uploads/products/a.jpg", "/uploads/products/b.jpg"},
	}, &created)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Bamboo Cup", created.Name)
	assert.Equal(t, models.ProductStatusActive, created.Status)
	assert.Equal(t, "Seller", created.SellerName)
	require.Len(t, created.ImageURLs, 2)

	// First image is primary
	var primary models.ProductImage
	require.NoError(t, db.Where("product_id = ? AND is_primary = ?", created.ID, true).First(&primary).Error)
	assert.Equal(t, "/uploads/products/a.jpg", primary.ImageURL)
}

func TestCreateProduct_Validation(t *testing.T) {
	app, db := setupTestApp(t)
	_, token := createTestUser(t, db, "seller@example.com", "Seller")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"invalid category", map[string]interface{}{
			"name": "X", "description": "d", "price": 10.0, "category": "Nonsense", "condition": "new",
		}},
		{"eco rating too high", map[string]interface{}{
			"name": "X", "description": "d", "price": 10.0, "category": "Other", "condition": "new", "eco_rating": 6,
		}},
		{"eco rating too low", map[string]interface{}{
			"name": "X", "description": "d", "price": 10.0, "category": "Other", "condition": "new", "eco_rating": 0,
		}},
		{"non-positive price", map[string]interface{}{
			"name": "X", "description": "d", "price": 0.0, "category": "Other", "condition": "new",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, "POST", "/api/products", token, tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateProduct_Unauthorized(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doRequest(t, app, "POST", "/api/products", "", map[string]interface{}{
		"name": "X", "description": "d", "price": 10.0, "category": "Other", "condition": "new",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProduct(t *testing.T) {
	app, db := setupTestApp(t)
	seller, token := createTestUser(t, db, "seller@example.com", "Seller")
	_, otherToken := createTestUser(t, db, "other@example.com", "Other")
	product := createTestProduct(t, db, seller.ID, "Original", 10)

	// Partial update: only provided fields change
	var updated ProductResponse
	resp := doRequest(t, app, "PUT", fmt.Sprintf("/api/products/%d", product.ID), token, map[string]interface{}{
		"price": 15.0,
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 15.0, updated.Price)
	assert.Equal(t, "Original", updated.Name)

	// Non-owner is forbidden
	resp = doRequest(t, app, "PUT", fmt.Sprintf("/api/products/%d", product.ID), otherToken, map[string]interface{}{
		"price": 1.0,
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateProduct_ImageReplacement(t *testing.T) {
	app, db := setupTestApp(t)
	seller, token := createTestUser(t, db, "seller@example.com", "Seller")
	product := createTestProduct(t, db, seller.ID, "Pictured", 10)

	for i, url := range []string{"/old/1.jpg", "/old/2.jpg"} {
		require.NoError(t, db.Create(&models.ProductImage{
			ProductID: product.ID,
			ImageURL:  url,
			IsPrimary: i == 0,
		}).Error)
	}

	var updated ProductResponse
	resp := doRequest(t, app, "PUT", fmt.Sprintf("/api/products/%d", product.ID), token, map[string]interface{}{
		"image_urls": []string{"/new/1.jpg"},
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Full replace, not merge
	require.Len(t, updated.ImageURLs, 1)
	assert.Equal(t, "/new/1.jpg", updated.ImageURLs[0])

	var count int64
	db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteProduct_SoftDelete(t *testing.T) {
	app, db := setupTestApp(t)
	seller, token := createTestUser(t, db, "seller@example.com", "Seller")
	_, otherToken := createTestUser(t, db, "other@example.com", "Other")
	product := createTestProduct(t, db, seller.ID, "Doomed", 10)

	// Non-owner is forbidden
	resp := doRequest(t, app, "DELETE", fmt.Sprintf("/api/products/%d", product.ID), otherToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "DELETE", fmt.Sprintf("/api/products/%d", product.ID), token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Row survives with deleted status
	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Equal(t, models.ProductStatusDeleted, stored.Status)

	// And no longer appears in list results
	var body productListBody
	doRequest(t, app, "GET", "/api/products", "", nil, &body)
	assert.Empty(t, body.Products)
}

func TestGetMyProducts(t *testing.T) {
	app, db := setupTestApp(t)
	seller, token := createTestUser(t, db, "seller@example.com", "Seller")
	other, _ := createTestUser(t, db, "other@example.com", "Other")

	mine := createTestProduct(t, db, seller.ID, "Mine", 10)
	sold := createTestProduct(t, db, seller.ID, "Mine Sold", 10)
	require.NoError(t, db.Model(&sold).Update("status", models.ProductStatusSold).Error)
	deleted := createTestProduct(t, db, seller.ID, "Mine Deleted", 10)
	require.NoError(t, db.Model(&deleted).Update("status", models.ProductStatusDeleted).Error)
	createTestProduct(t, db, other.ID, "Theirs", 10)

	var body productListBody
	resp := doRequest(t, app, "GET", "/api/users/me/products", token, nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Own listings including sold, excluding deleted
	require.Len(t, body.Products, 2)
	names := []string{body.Products[0].Name, body.Products[1].Name}
	assert.Contains(t, names, mine.Name)
	assert.Contains(t, names, sold.Name)
}

func TestGetCategories(t *testing.T) {
	app, _ := setupTestApp(t)

	var body struct {
		Categories []string `json:"categories"`
	}
	resp := doRequest(t, app, "GET", "/api/categories", "", nil, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.Categories, body.Categories)
}
