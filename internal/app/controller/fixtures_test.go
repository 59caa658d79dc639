package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupControllerTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

// asUser wraps a handler so it runs as an authenticated user.
func asUser(userID uint, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setUserIDInContext(c, userID)
		handler(c)
	}
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test Shopper",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, slug, price string, stock int) *model.Product {
	product := &model.Product{
		Name:     fmt.Sprintf("Product %s", slug),
		Slug:     slug,
		Price:    decimal.RequireFromString(price),
		Images:   model.StringList{fmt.Sprintf("https://cdn.example.com/%s.jpg", slug)},
		Sizes:    model.StringList{"M"},
		Colors:   model.StringList{"Black"},
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createTestAddress(t *testing.T, testDB *gorm.DB, userID uint, label string, isDefault bool) *model.Address {
	address := &model.Address{
		UserID:    userID,
		Label:     label,
		Street:    "House 12, Street 4",
		City:      "Lahore",
		Province:  "Punjab",
		Phone:     "03001234567",
		IsDefault: isDefault,
	}
	require.NoError(t, testDB.Create(address).Error)
	return address
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	return performAuthedRequest(router, method, path, "", body)
}

// performAuthedRequest sends body as JSON and, when token is set, a bearer Authorization header.
func performAuthedRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) map[string]interface{} {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	response := decodeBody(t, w)
	require.Equal(t, code, response["error"])
	return response
}
