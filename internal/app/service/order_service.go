package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLineInput is one cart line in request order.
type OrderLineInput struct {
	ProductID uint
	Quantity  int
	Size      string
	Color     string
}

type PlaceOrderInput struct {
	ShippingAddressID uint
	PaymentMethod     string
	Items             []OrderLineInput
}

type OrderPage struct {
	Total int64         `json:"total"`
	Items []model.Order `json:"items"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

// StockPublisher is told about stock levels after an order commits.
type StockPublisher interface {
	PublishStock(productID uint, stock int)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*model.Order, error)
	ListOrders(ctx context.Context, userID uint, page, size int) (*OrderPage, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*model.Order, error)
}

type orderService struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	addressRepo    repository.AddressRepository
	ledger         InventoryLedger
	paymentMethods map[string]struct{}
	publisher      StockPublisher
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	ledger InventoryLedger,
	paymentMethods []string,
	publisher StockPublisher,
) OrderService {
	methods := make(map[string]struct{}, len(paymentMethods))
	for _, m := range paymentMethods {
		methods[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &orderService{
		db:             db,
		orderRepo:      orderRepo,
		addressRepo:    addressRepo,
		ledger:         ledger,
		paymentMethods: methods,
		publisher:      publisher,
	}
}

func (s *orderService) validate(input *PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return ErrEmptyOrder
	}
	for i, line := range input.Items {
		if line.Quantity <= 0 {
			return &LineError{Line: i, ProductID: line.ProductID, Err: ErrInvalidQuantity}
		}
	}
	input.PaymentMethod = strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if _, ok := s.paymentMethods[input.PaymentMethod]; !ok {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// PlaceOrder validates the shipping address, reserves stock for every line, snapshots unit
// prices and writes the order with its items. All of it happens in one transaction bound to
// ctx: any failure, including cancellation, leaves no stock decrement or order row behind.
func (s *orderService) PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":             userID,
		"shipping_address_id": input.ShippingAddressID,
		"payment_method":      input.PaymentMethod,
		"lines":               len(input.Items),
	})

	if err := s.validate(&input); err != nil {
		logger.Warn("Order rejected by validation", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	var (
		order    *model.Order
		reserved []*Reservation
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		address, err := s.addressRepo.WithTx(tx).FindByIDForUser(input.ShippingAddressID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}

		productIDs := make([]uint, len(input.Items))
		for i, line := range input.Items {
			productIDs[i] = line.ProductID
		}
		if err := s.ledger.LockProducts(tx, productIDs); err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(input.Items))
		reserved = reserved[:0]
		for i, line := range input.Items {
			reservation, err := s.ledger.CheckAndReserve(tx, line.ProductID, line.Quantity)
			if err != nil {
				return &LineError{Line: i, ProductID: line.ProductID, Err: err}
			}
			reserved = append(reserved, reservation)

			total = total.Add(reservation.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, model.OrderItem{
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: reservation.UnitPrice,
				Size:            strings.TrimSpace(line.Size),
				Color:           strings.TrimSpace(line.Color),
			})
		}

		order = &model.Order{
			UserID:            userID,
			Status:            model.OrderStatusPending,
			TotalAmount:       total,
			PaymentMethod:     input.PaymentMethod,
			ShippingAddressID: address.ID,
			ShippingAddress:   address.Snapshot(),
			Items:             items,
		}
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		var lineErr *LineError
		switch {
		case errors.Is(err, ErrAddressNotFound):
			logger.Warn("Order rejected: shipping address not found", map[string]interface{}{
				"user_id":    userID,
				"address_id": input.ShippingAddressID,
			})
		case errors.As(err, &lineErr):
			logger.Warn("Order rejected: line failed", map[string]interface{}{
				"user_id":    userID,
				"line":       lineErr.Line,
				"product_id": lineErr.ProductID,
				"reason":     lineErr.Err.Error(),
			})
		default:
			logger.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount.String(),
	})

	s.publishStock(reserved)

	// The order is committed; reading it back must not fail because the caller went away.
	hydrated, err := s.orderRepo.WithTx(s.db.WithContext(context.WithoutCancel(ctx))).FindByIDForUser(order.ID, userID)
	if err != nil {
		logger.Error("Failed to reload placed order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}
	return hydrated, nil
}

func (s *orderService) publishStock(reserved []*Reservation) {
	if s.publisher == nil {
		return
	}
	latest := make(map[uint]int, len(reserved))
	order := make([]uint, 0, len(reserved))
	for _, r := range reserved {
		if _, ok := latest[r.ProductID]; !ok {
			order = append(order, r.ProductID)
		}
		latest[r.ProductID] = r.NewStock
	}
	for _, id := range order {
		s.publisher.PublishStock(id, latest[id])
	}
}

func (s *orderService) ListOrders(ctx context.Context, userID uint, page, size int) (*OrderPage, error) {
	page, size, offset := normalizePage(page, size)

	orders, total, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).FindByUserID(userID, size, offset)
	if err != nil {
		logger.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders listed", map[string]interface{}{
		"user_id": userID,
		"page":    page,
		"size":    size,
		"count":   len(orders),
	})
	return &OrderPage{Total: total, Items: orders, Page: page, Size: size}, nil
}

// GetOrder returns ErrOrderNotFound for another user's order as well as a missing one.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.WithTx(s.db.WithContext(ctx)).FindByIDForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}
	return order, nil
}
