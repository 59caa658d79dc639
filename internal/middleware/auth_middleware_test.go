package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/hanzla-outlet/outlet-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type staticRevocations map[string]bool

func (s staticRevocations) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	return s[token], nil
}

type staticActiveUsers map[uint]bool

func (s staticActiveUsers) IsActive(id uint) (bool, error) {
	active, ok := s[id]
	if !ok {
		return false, errors.New("user not found")
	}
	return active, nil
}

func setupMiddlewareTest(revoked RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, revoked)
}

func generateTestTokens(t *testing.T, userID uint, email, role string) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(
		userID,
		email,
		role,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens
}

func generateTestToken(t *testing.T, userID uint, email, role string) string {
	return generateTestTokens(t, userID, email, role).AccessToken
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	token := generateTestToken(t, 1, "ayesha@example.com", "user")

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)

		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"email":   email,
			"role":    role,
		})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["user_id"])
	assert.Equal(t, "ayesha@example.com", body["email"])
	assert.Equal(t, "user", body["role"])
}

func TestAuthMiddleware_Authenticate_Rejections(t *testing.T) {
	tokens := generateTestTokens(t, 1, "ayesha@example.com", "user")
	revokedAccess := generateTestToken(t, 2, "bilal@example.com", "user")

	router, authMiddleware := setupMiddlewareTest(staticRevocations{revokedAccess: true})
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "No token", header: "", wantCode: apperrors.AuthUnauthorized},
		{name: "Wrong scheme", header: "Basic abc", wantCode: apperrors.AuthTokenInvalid},
		{name: "Malformed token", header: "Bearer not-a-jwt", wantCode: apperrors.AuthTokenInvalid},
		{name: "Refresh token used as access", header: "Bearer " + tokens.RefreshToken, wantCode: apperrors.AuthTokenInvalid},
		{name: "Revoked token", header: "Bearer " + revokedAccess, wantCode: apperrors.AuthTokenRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
		})
	}
}

func TestAuthMiddleware_Authenticate_ExpiredToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tokens, err := util.GenerateTokenPair(1, "a@example.com", "user", testJWTSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthTokenExpired, decodeError(t, w).Error)
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/ws", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	req := httptest.NewRequest("GET", "/ws?token="+generateTestToken(t, 9, "z@example.com", "user"), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":9`)
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/feed", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})

	t.Run("Guest", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/feed", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("Invalid token continues as guest", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/feed", nil)
		req.Header.Set("Authorization", "Bearer broken")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("Valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/feed", nil)
		req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 4, "x@example.com", "user"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Contains(t, w.Body.String(), `"authenticated":true`)
		assert.Contains(t, w.Body.String(), `"user_id":4`)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleAdmin),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "access granted"})
		},
	)

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{name: "Admin role", role: "admin", expectedStatus: http.StatusOK},
		{name: "User role", role: "user", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := generateTestToken(t, 1, "test@example.com", tt.role)

			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_NoRoleInContext(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/admin", authMiddleware.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzRoleNotFound, decodeError(t, w).Error)
}

func TestAuthMiddleware_RequireActiveUser(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	users := staticActiveUsers{1: true, 2: false}

	router.GET("/me",
		authMiddleware.Authenticate(),
		authMiddleware.RequireActiveUser(users),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)

	tests := []struct {
		name   string
		userID uint
		want   int
	}{
		{name: "Active", userID: 1, want: http.StatusOK},
		{name: "Deactivated", userID: 2, want: http.StatusUnauthorized},
		{name: "Deleted", userID: 3, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, tt.userID, "u@example.com", "user"))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	userID, exists := GetUserID(c)
	assert.False(t, exists)
	assert.Equal(t, uint(0), userID)

	c.Set("user_id", uint(123))
	userID, exists = GetUserID(c)
	assert.True(t, exists)
	assert.Equal(t, uint(123), userID)
}

func TestGetUserRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, exists := GetUserRole(c)
	assert.False(t, exists)

	c.Set("user_role", model.RoleAdmin)
	role, exists := GetUserRole(c)
	assert.True(t, exists)
	assert.Equal(t, model.RoleAdmin, role)
}
