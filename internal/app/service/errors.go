package service

import (
	"errors"
	"fmt"
)

var (
	ErrAddressNotFound      = errors.New("address not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInactive      = errors.New("product is not active")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

// InsufficientStockError carries the stock left when a reservation was refused.
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// LineError ties a failure to the cart line (0-based, in request order) that caused it.
type LineError struct {
	Line      int
	ProductID uint
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (product %d): %v", e.Line, e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
