package repository

import (
	"fmt"
	"strings"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
)

type ProductFilter struct {
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Search       string
	ActiveOnly   bool
	SortBy       ProductSort
	Limit        int
	Offset       int
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string, activeOnly bool) (*model.Product, error)
	FindActive(limit int) ([]model.Product, error)
	Updates(product *model.Product, fields map[string]interface{}) error
	Delete(id uint) error

	// Inventory primitives; call them inside a transaction.
	LockByIDs(ids []uint) ([]model.Product, error)
	FindByIDForUpdate(id uint) (*model.Product, error)
	DecrementStock(id uint, quantity int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"slug": product.Slug,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category_slug": filter.CategorySlug,
		"min_price":     filter.MinPrice,
		"max_price":     filter.MaxPrice,
		"search":        filter.Search,
		"sort_by":       filter.SortBy,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.db.Model(&model.Product{})

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	switch filter.SortBy {
	case ProductSortPriceAsc:
		query = query.Order("products.price ASC")
	case ProductSortPriceDesc:
		query = query.Order("products.price DESC")
	default:
		query = query.Order("products.created_at DESC")
	}
	query = query.Order("products.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	products := []model.Product{}
	if err := query.Preload("Category").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string, activeOnly bool) (*model.Product, error) {
	query := r.db.Preload("Category").Where("slug = ?", slug)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var product model.Product
	if err := query.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActive returns up to limit active products with their category, newest first.
func (r *productRepository) FindActive(limit int) ([]model.Product, error) {
	products := []model.Product{}
	query := r.db.Preload("Category").Where("is_active = ?", true).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find active products", err, nil)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Updates(product *model.Product, fields map[string]interface{}) error {
	if len(fields) > 0 {
		if err := r.db.Model(product).Updates(fields).Error; err != nil {
			logger.Error("Failed to update product in database", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return err
		}
	}
	return r.db.Preload("Category").First(product, product.ID).Error
}

func (r *productRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Product{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete product from database", res.Error, map[string]interface{}{
			"product_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockByIDs locks the rows in ascending id order. Two orders touching the same products
// then always queue in the same order instead of deadlocking.
func (r *productRepository) LockByIDs(ids []uint) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) FindByIDForUpdate(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts quantity only while enough stock remains. It reports false
// when the guard rejected the update, which the caller treats as insufficient stock.
func (r *productRepository) DecrementStock(id uint, quantity int) (bool, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		logger.Error("Failed to decrement product stock", res.Error, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
