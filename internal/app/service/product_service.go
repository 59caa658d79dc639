package service

import (
	"errors"
	"strings"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/hanzla-outlet/outlet-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductInUse  = errors.New("product is referenced by orders")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidStock  = errors.New("stock cannot be negative")
	ErrInvalidFilter = errors.New("min_price is greater than max_price")
)

type ProductListQuery struct {
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Search       string
	Sort         repository.ProductSort
	Page         int
	Size         int
}

type ProductPage struct {
	Total int64           `json:"total"`
	Items []model.Product `json:"items"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

type ProductInput struct {
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Images        []string
	Sizes         []string
	Colors        []string
	Stock         int
	CategoryID    *uint
	IsActive      *bool
}

// ProductUpdate is a partial update; ClearDiscount and ClearCategory null those columns.
type ProductUpdate struct {
	Name          *string
	Slug          *string
	Description   *string
	Price         *decimal.Decimal
	DiscountPrice *decimal.Decimal
	ClearDiscount bool
	Images        *[]string
	Sizes         *[]string
	Colors        *[]string
	Stock         *int
	CategoryID    *uint
	ClearCategory bool
	IsActive      *bool
}

type ProductService interface {
	List(query ProductListQuery) (*ProductPage, error)
	ListAll(page, size int) (*ProductPage, error)
	GetBySlug(slug string) (*model.Product, error)
	GetByID(id uint) (*model.Product, error)
	Create(input ProductInput) (*model.Product, error)
	Update(id uint, update ProductUpdate) (*model.Product, error)
	Delete(id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
	}
}

// List returns active products only.
func (s *productService) List(query ProductListQuery) (*ProductPage, error) {
	if query.MinPrice != nil && query.MaxPrice != nil && query.MinPrice.GreaterThan(*query.MaxPrice) {
		return nil, ErrInvalidFilter
	}
	page, size, offset := normalizePage(query.Page, query.Size)

	products, total, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		CategorySlug: strings.TrimSpace(query.CategorySlug),
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
		Search:       strings.TrimSpace(query.Search),
		ActiveOnly:   true,
		SortBy:       query.Sort,
		Limit:        size,
		Offset:       offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}
	return &ProductPage{Total: total, Items: products, Page: page, Size: size}, nil
}

// ListAll includes inactive products, for the admin catalog.
func (s *productService) ListAll(page, size int) (*ProductPage, error) {
	page, size, offset := normalizePage(page, size)
	products, total, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Limit:  size,
		Offset: offset,
	})
	if err != nil {
		logger.Error("Failed to list all products", err, nil)
		return nil, err
	}
	return &ProductPage{Total: total, Items: products, Page: page, Size: size}, nil
}

func (s *productService) GetBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func validatePrices(price decimal.Decimal, discount *decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if discount != nil && (discount.IsNegative() || discount.GreaterThan(price)) {
		return ErrInvalidPrice
	}
	return nil
}

func (s *productService) checkCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func cleanList(values []string) model.StringList {
	out := model.StringList{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *productService) Create(input ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	slug := util.Slugify(input.Slug)
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	if err := validatePrices(input.Price, input.DiscountPrice); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		Name:          name,
		Slug:          slug,
		Description:   input.Description,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Images:        cleanList(input.Images),
		Sizes:         cleanList(input.Sizes),
		Colors:        cleanList(input.Colors),
		Stock:         input.Stock,
		CategoryID:    input.CategoryID,
		IsActive:      input.IsActive == nil || *input.IsActive,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return s.GetByID(product.ID)
}

func (s *productService) Update(id uint, update ProductUpdate) (*model.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		fields["name"] = name
	}
	if update.Slug != nil {
		slug := util.Slugify(*update.Slug)
		if slug == "" {
			return nil, ErrInvalidSlug
		}
		fields["slug"] = slug
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}

	price := product.Price
	if update.Price != nil {
		price = *update.Price
		fields["price"] = price
	}
	discount := product.DiscountPrice
	switch {
	case update.ClearDiscount:
		discount = nil
		fields["discount_price"] = nil
	case update.DiscountPrice != nil:
		discount = update.DiscountPrice
		fields["discount_price"] = *discount
	}
	if err := validatePrices(price, discount); err != nil {
		return nil, err
	}

	if update.Images != nil {
		fields["images"] = cleanList(*update.Images)
	}
	if update.Sizes != nil {
		fields["sizes"] = cleanList(*update.Sizes)
	}
	if update.Colors != nil {
		fields["colors"] = cleanList(*update.Colors)
	}
	if update.Stock != nil {
		if *update.Stock < 0 {
			return nil, ErrInvalidStock
		}
		fields["stock"] = *update.Stock
	}
	switch {
	case update.ClearCategory:
		fields["category_id"] = nil
	case update.CategoryID != nil:
		if err := s.checkCategory(*update.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *update.CategoryID
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}

	if err := s.productRepo.Updates(product, fields); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"fields":     len(fields),
	})
	return product, nil
}

// Delete hard-deletes a product that no order line references.
func (s *productService) Delete(id uint) error {
	count, err := s.orderRepo.CountItemsByProductID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Refusing to delete product referenced by orders", map[string]interface{}{
			"product_id":  id,
			"order_items": count,
		})
		return ErrProductInUse
	}

	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
