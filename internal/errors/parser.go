package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-safe code and message derived from an internal error
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies storage errors (gorm, PostgreSQL, SQLite) into client-safe codes.
// context names the resource being handled ("product", "category", "user", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	// 23505
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// 23503
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower, context)
	}

	// 23502
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	// 23514
	if strings.Contains(errLower, "check constraint") {
		if strings.Contains(errLower, "stock") {
			return ErrorInfo{Code: StockInsufficient, Message: "Stock cannot go below zero"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errLower, "wishlist"):
		return ErrorInfo{Code: WishlistItemExists, Message: "Product is already in your wishlist"}
	case strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Slug is already in use"}
	case strings.Contains(errLower, "name"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Name is already in use"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	// Delete blocked by a referencing row. SQLite reports every FK failure the same way,
	// so a delete context is treated as "still referenced".
	if strings.Contains(errLower, "still referenced") || strings.Contains(strings.ToLower(context), "delete") {
		if strings.Contains(context, "product") {
			return ErrorInfo{Code: ProductInUse, Message: "Product is referenced by existing orders"}
		}
		if strings.Contains(context, "categor") {
			return ErrorInfo{Code: CategoryInUse, Message: "Category still has products or children"}
		}
		return ErrorInfo{Code: ResourceConflict, Message: "Resource is still referenced"}
	}

	switch {
	case strings.Contains(errLower, "category_id"):
		return ErrorInfo{Code: CategoryNotFound, Message: "Category not found"}
	case strings.Contains(errLower, "product_id"):
		return ErrorInfo{Code: ProductNotFound, Message: "Product not found"}
	case strings.Contains(errLower, "user_id"):
		return ErrorInfo{Code: ResourceNotFound, Message: "User not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referenced resource not found"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "categor"):
		return "Category not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "address"):
		return "Address not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "Resource not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the resource. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the resource. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the resource. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// StatusFor maps a parsed code to its HTTP status
func StatusFor(code string) int {
	switch code {
	case ResourceNotFound, ProductNotFound, CategoryNotFound, OrderNotFound, AddressNotFound:
		return 404
	case ResourceAlreadyExists, ResourceConflict, AuthEmailAlreadyExists, WishlistItemExists,
		ProductInUse, CategoryInUse, StockInsufficient:
		return 409
	case ValidationRequired, ValidationInvalidInput:
		return 400
	case InternalExternalAPI:
		return 502
	}
	return 500
}

// ParseAndRespond parses err and writes it with the status derived from its code
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(StatusFor(errorInfo.Code), ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
