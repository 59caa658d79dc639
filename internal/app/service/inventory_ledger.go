package service

import (
	"errors"
	"sort"

	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservation is the outcome of a successful stock reservation.
type Reservation struct {
	ProductID uint
	UnitPrice decimal.Decimal
	NewStock  int
}

// InventoryLedger owns product stock. Every method takes the caller's transaction;
// a reservation only becomes durable when that transaction commits.
type InventoryLedger interface {
	LockProducts(tx *gorm.DB, productIDs []uint) error
	CheckAndReserve(tx *gorm.DB, productID uint, quantity int) (*Reservation, error)
}

type inventoryLedger struct {
	productRepo repository.ProductRepository
}

func NewInventoryLedger(productRepo repository.ProductRepository) InventoryLedger {
	return &inventoryLedger{productRepo: productRepo}
}

// LockProducts takes row locks on the distinct ids in ascending order.
func (l *inventoryLedger) LockProducts(tx *gorm.DB, productIDs []uint) error {
	seen := make(map[uint]struct{}, len(productIDs))
	ids := make([]uint, 0, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if _, err := l.productRepo.WithTx(tx).LockByIDs(ids); err != nil {
		logger.Error("Failed to lock products", err, map[string]interface{}{
			"product_ids": ids,
		})
		return err
	}
	return nil
}

func (l *inventoryLedger) CheckAndReserve(tx *gorm.DB, productID uint, quantity int) (*Reservation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	repo := l.productRepo.WithTx(tx)

	product, err := repo.FindByIDForUpdate(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Reservation failed: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to load product for reservation", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if !product.IsActive {
		logger.Warn("Reservation failed: product inactive", map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrProductInactive
	}

	if product.Stock < quantity {
		logger.Warn("Reservation failed: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  quantity,
			"available":  product.Stock,
		})
		return nil, &InsufficientStockError{ProductID: productID, Available: product.Stock, Requested: quantity}
	}

	// The UPDATE re-checks stock >= quantity; zero rows means another writer got there first.
	ok, err := repo.DecrementStock(productID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := repo.FindByIDForUpdate(productID)
		if err != nil {
			return nil, err
		}
		logger.Warn("Reservation lost a race on stock", map[string]interface{}{
			"product_id": productID,
			"requested":  quantity,
			"available":  current.Stock,
		})
		return nil, &InsufficientStockError{ProductID: productID, Available: current.Stock, Requested: quantity}
	}

	reservation := &Reservation{
		ProductID: productID,
		UnitPrice: product.EffectivePrice(),
		NewStock:  product.Stock - quantity,
	}

	logger.Debug("Stock reserved", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
		"unit_price": reservation.UnitPrice.String(),
		"new_stock":  reservation.NewStock,
	})
	return reservation, nil
}
