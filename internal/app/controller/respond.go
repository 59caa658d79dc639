package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
	"github.com/hanzla-outlet/outlet-backend/pkg/util"
)

type errorMapping struct {
	status  int
	code    string
	message string
}

// serviceErrors maps service sentinels to their HTTP rendering. Anything absent
// falls through to apperrors.ParseAndRespond.
var serviceErrors = []struct {
	target error
	errorMapping
}{
	{service.ErrAddressNotFound, errorMapping{http.StatusNotFound, apperrors.AddressNotFound, "Address not found"}},
	{service.ErrOrderNotFound, errorMapping{http.StatusNotFound, apperrors.OrderNotFound, "Order not found"}},
	{service.ErrProductNotFound, errorMapping{http.StatusNotFound, apperrors.ProductNotFound, "Product not found"}},
	{service.ErrCategoryNotFound, errorMapping{http.StatusNotFound, apperrors.CategoryNotFound, "Category not found"}},
	{service.ErrWishlistItemNotFound, errorMapping{http.StatusNotFound, apperrors.WishlistItemNotFound, "Product is not in your wishlist"}},
	{service.ErrUserNotFound, errorMapping{http.StatusNotFound, apperrors.ResourceNotFound, "User not found"}},

	{service.ErrProductInactive, errorMapping{http.StatusConflict, apperrors.ProductInactive, "Product is no longer available"}},
	{service.ErrInsufficientStock, errorMapping{http.StatusConflict, apperrors.StockInsufficient, "Not enough stock"}},
	{service.ErrProductInUse, errorMapping{http.StatusConflict, apperrors.ProductInUse, "Product is referenced by existing orders"}},
	{service.ErrWishlistItemAlreadyExists, errorMapping{http.StatusConflict, apperrors.WishlistItemExists, "Product is already in your wishlist"}},
	{service.ErrEmailAlreadyExists, errorMapping{http.StatusConflict, apperrors.AuthEmailAlreadyExists, "Email is already registered"}},

	{service.ErrEmptyOrder, errorMapping{http.StatusBadRequest, apperrors.OrderEmpty, "Order must contain at least one item"}},
	{service.ErrInvalidQuantity, errorMapping{http.StatusBadRequest, apperrors.OrderInvalidQuantity, "Quantity must be greater than zero"}},
	{service.ErrInvalidPaymentMethod, errorMapping{http.StatusBadRequest, apperrors.OrderInvalidPaymentMethod, "Unsupported payment method"}},
	{service.ErrInvalidPrice, errorMapping{http.StatusBadRequest, apperrors.ValidationInvalidRange, "Price must be positive and the discount below the price"}},
	{service.ErrInvalidStock, errorMapping{http.StatusBadRequest, apperrors.ValidationInvalidRange, "Stock cannot be negative"}},
	{service.ErrInvalidFilter, errorMapping{http.StatusBadRequest, apperrors.ValidationInvalidRange, "min_price cannot exceed max_price"}},
	{service.ErrInvalidName, errorMapping{http.StatusBadRequest, apperrors.ValidationRequired, "Name is required"}},
	{service.ErrInvalidSlug, errorMapping{http.StatusBadRequest, apperrors.ValidationInvalidFormat, "Slug must contain letters or digits"}},
	{service.ErrInvalidCategoryParent, errorMapping{http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid parent category"}},

	{service.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"}},
	{service.ErrUserInactive, errorMapping{http.StatusForbidden, apperrors.AuthUserInactive, "This account is not active"}},
	{service.ErrTokenRevoked, errorMapping{http.StatusUnauthorized, apperrors.AuthTokenRevoked, "This token has been revoked"}},
	{service.ErrWrongTokenType, errorMapping{http.StatusUnauthorized, apperrors.AuthTokenInvalid, "A refresh token is required"}},
	{util.ErrExpiredToken, errorMapping{http.StatusUnauthorized, apperrors.AuthTokenExpired, "Your session has expired"}},
	{util.ErrInvalidToken, errorMapping{http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid authentication token"}},
}

// respondError renders err. Order line failures carry the failing line in details.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var details map[string]interface{}
	var lineErr *service.LineError
	if errors.As(err, &lineErr) {
		details = map[string]interface{}{
			"line":       lineErr.Line,
			"product_id": lineErr.ProductID,
		}
		var stockErr *service.InsufficientStockError
		if errors.As(err, &stockErr) {
			details["available"] = stockErr.Available
			details["requested"] = stockErr.Requested
		}
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"context": context,
				"code":    m.code,
				"error":   err.Error(),
			})
			apperrors.RespondWithDetails(c, m.status, m.code, m.message, details)
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	apperrors.ParseAndRespond(c, err, context)
}

// requireUserID reads the authenticated user or writes 401.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "User not authenticated")
		return 0, false
	}
	return userID, true
}

// parseIDParam reads a positive numeric path parameter or writes 400.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func bindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	apperrors.RespondWithDetails(c, http.StatusBadRequest, apperrors.ValidationInvalidInput, "Invalid request data",
		map[string]interface{}{"reason": err.Error()})
}

// intValue reads an optional query value; absent means zero, which the services replace with a default.
func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
