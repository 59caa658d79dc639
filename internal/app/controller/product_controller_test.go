package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := setupControllerTestDB(t)
	productService := service.NewProductService(
		repository.NewProductRepository(testDB),
		repository.NewCategoryRepository(testDB),
		repository.NewOrderRepository(testDB),
	)
	ctrl := NewProductController(productService)

	router := newTestRouter()
	router.GET("/products", ctrl.GetProducts)
	router.GET("/products/:slug", ctrl.GetProductBySlug)
	router.GET("/admin/products", ctrl.AdminListProducts)
	router.GET("/admin/products/:id", ctrl.AdminGetProduct)
	router.POST("/admin/products", ctrl.CreateProduct)
	router.PATCH("/admin/products/:id", ctrl.UpdateProduct)
	router.DELETE("/admin/products/:id", ctrl.DeleteProduct)
	return router, testDB
}

func listedSlugs(t *testing.T, response map[string]interface{}) []string {
	var slugs []string
	for _, item := range response["items"].([]interface{}) {
		slugs = append(slugs, item.(map[string]interface{})["slug"].(string))
	}
	return slugs
}

func TestProductController_GetProducts_Filters(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	men := &model.Category{Name: "Men", Slug: "men"}
	require.NoError(t, testDB.Create(men).Error)

	kurta := createTestProduct(t, testDB, "cotton-kurta", "3500", 4)
	require.NoError(t, testDB.Model(kurta).Update("category_id", men.ID).Error)
	createTestProduct(t, testDB, "denim-jacket", "7500", 2)
	hidden := createTestProduct(t, testDB, "hidden-kurta", "3000", 2)
	require.NoError(t, testDB.Model(hidden).Update("is_active", false).Error)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "All active", query: "", want: []string{"denim-jacket", "cotton-kurta"}},
		{name: "Category", query: "?category_slug=men", want: []string{"cotton-kurta"}},
		{name: "Price range", query: "?min_price=5000&max_price=8000", want: []string{"denim-jacket"}},
		{name: "Search", query: "?search=KURTA", want: []string{"cotton-kurta"}},
		{name: "Price ascending", query: "?sort=price_asc", want: []string{"cotton-kurta", "denim-jacket"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/products"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, listedSlugs(t, decodeBody(t, w)))
		})
	}
}

func TestProductController_GetProducts_InvalidQuery(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	assertErrorCode(t, performRequest(router, http.MethodGet, "/products?min_price=cheap", nil), http.StatusBadRequest, apperrors.ValidationInvalidFormat)
	assertErrorCode(t, performRequest(router, http.MethodGet, "/products?min_price=900&max_price=100", nil), http.StatusBadRequest, apperrors.ValidationInvalidRange)
	assertErrorCode(t, performRequest(router, http.MethodGet, "/products?size=500", nil), http.StatusBadRequest, apperrors.ValidationInvalidInput)
	assertErrorCode(t, performRequest(router, http.MethodGet, "/products?sort=random", nil), http.StatusBadRequest, apperrors.ValidationInvalidInput)

	for _, query := range []string{"page=0", "size=0"} {
		assertErrorCode(t, performRequest(router, http.MethodGet, "/products?"+query, nil), http.StatusBadRequest, apperrors.ValidationInvalidInput)
		assertErrorCode(t, performRequest(router, http.MethodGet, "/admin/products?"+query, nil), http.StatusBadRequest, apperrors.ValidationInvalidInput)
	}

	w := performRequest(router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, float64(1), response["page"])
	assert.Equal(t, float64(20), response["size"])
}

func TestProductController_GetProductBySlug(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	createTestProduct(t, testDB, "visible", "100", 1)
	hidden := createTestProduct(t, testDB, "retired", "100", 1)
	require.NoError(t, testDB.Model(hidden).Update("is_active", false).Error)

	w := performRequest(router, http.MethodGet, "/products/visible", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", decodeBody(t, w)["product"].(map[string]interface{})["price"])

	assertErrorCode(t, performRequest(router, http.MethodGet, "/products/retired", nil), http.StatusNotFound, apperrors.ProductNotFound)
	assertErrorCode(t, performRequest(router, http.MethodGet, "/products/missing", nil), http.StatusNotFound, apperrors.ProductNotFound)

	w = performRequest(router, http.MethodGet, fmt.Sprintf("/admin/products/%d", hidden.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["product"].(map[string]interface{})["is_active"])

	w = performRequest(router, http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])
}

func TestProductController_CreateProduct(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	w := performRequest(router, http.MethodPost, "/admin/products", gin.H{
		"name":           "Embroidered Shawl",
		"price":          "4999.00",
		"discount_price": "3999.50",
		"images":         []string{"https://cdn.example.com/shawl.jpg"},
		"sizes":          []string{"Free"},
		"colors":         []string{"Maroon", " "},
		"stock":          12,
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decodeBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "embroidered-shawl", product["slug"])
	assert.Equal(t, "3999.5", product["discount_price"])
	assert.Equal(t, []interface{}{"Maroon"}, product["colors"])
	assert.Equal(t, true, product["is_active"])

	w = performRequest(router, http.MethodPost, "/admin/products", gin.H{
		"name":  "Embroidered Shawl",
		"price": "10",
	})
	assertErrorCode(t, w, http.StatusConflict, apperrors.ResourceAlreadyExists)

	tests := []struct {
		name string
		body gin.H
		code string
	}{
		{name: "Zero price", body: gin.H{"name": "Free", "price": "0"}, code: apperrors.ValidationInvalidRange},
		{name: "Discount above price", body: gin.H{"name": "Odd", "price": "10", "discount_price": "12"}, code: apperrors.ValidationInvalidRange},
		{name: "Negative stock", body: gin.H{"name": "Neg", "price": "10", "stock": -1}, code: apperrors.ValidationInvalidInput},
		{name: "Missing name", body: gin.H{"price": "10"}, code: apperrors.ValidationInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/admin/products", tt.body)
			assertErrorCode(t, w, http.StatusBadRequest, tt.code)
		})
	}

	w = performRequest(router, http.MethodPost, "/admin/products", gin.H{"name": "Lost", "price": "10", "category_id": 999})
	assertErrorCode(t, w, http.StatusNotFound, apperrors.CategoryNotFound)
}

func TestProductController_UpdateProduct(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	product := createTestProduct(t, testDB, "polo", "2000", 3)
	path := fmt.Sprintf("/admin/products/%d", product.ID)

	w := performRequest(router, http.MethodPatch, path, gin.H{"discount_price": "1500", "stock": 9})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "1500", updated["discount_price"])
	assert.Equal(t, float64(9), updated["stock"])
	assert.Equal(t, "Product polo", updated["name"])

	w = performRequest(router, http.MethodPatch, path, gin.H{"clear_discount": true, "is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	updated = decodeBody(t, w)["product"].(map[string]interface{})
	assert.Nil(t, updated["discount_price"])
	assert.Equal(t, false, updated["is_active"])

	assertErrorCode(t, performRequest(router, http.MethodPatch, "/admin/products/999", gin.H{"stock": 1}), http.StatusNotFound, apperrors.ProductNotFound)
}

func TestProductController_DeleteProduct(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	unsold := createTestProduct(t, testDB, "unsold", "100", 1)
	sold := createTestProduct(t, testDB, "sold", "100", 1)

	buyer := createTestUser(t, testDB, "buyer@example.com")
	address := createTestAddress(t, testDB, buyer.ID, "Home", true)
	order := &model.Order{
		UserID:            buyer.ID,
		Status:            model.OrderStatusPending,
		TotalAmount:       sold.Price,
		PaymentMethod:     "cod",
		ShippingAddressID: address.ID,
		ShippingAddress:   address.Snapshot(),
		Items:             []model.OrderItem{{ProductID: sold.ID, Quantity: 1, PriceAtPurchase: sold.Price}},
	}
	require.NoError(t, testDB.Create(order).Error)

	w := performRequest(router, http.MethodDelete, fmt.Sprintf("/admin/products/%d", unsold.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, fmt.Sprintf("/admin/products/%d", sold.ID), nil)
	assertErrorCode(t, w, http.StatusConflict, apperrors.ProductInUse)

	assertErrorCode(t, performRequest(router, http.MethodDelete, fmt.Sprintf("/admin/products/%d", unsold.ID), nil), http.StatusNotFound, apperrors.ProductNotFound)
}
