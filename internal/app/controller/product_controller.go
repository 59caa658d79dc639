package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ListProductsQuery struct {
	CategorySlug string `form:"category_slug"`
	MinPrice     string `form:"min_price"`
	MaxPrice     string `form:"max_price"`
	Search       string `form:"search" binding:"max=100"`
	Sort         string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc"`
	Page         *int   `form:"page" binding:"omitempty,min=1"`
	Size         *int   `form:"size" binding:"omitempty,min=1,max=100"`
}

type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Slug          string           `json:"slug" binding:"max=220"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Images        []string         `json:"images" binding:"dive,max=500"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Stock         int              `json:"stock" binding:"min=0"`
	CategoryID    *uint            `json:"category_id"`
	IsActive      *bool            `json:"is_active"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Slug          *string          `json:"slug" binding:"omitempty,max=220"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	ClearDiscount bool             `json:"clear_discount"`
	Images        *[]string        `json:"images"`
	Sizes         *[]string        `json:"sizes"`
	Colors        *[]string        `json:"colors"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID    *uint            `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
	IsActive      *bool            `json:"is_active"`
}

type PageQuery struct {
	Page *int `form:"page" binding:"omitempty,min=1"`
	Size *int `form:"size" binding:"omitempty,min=1,max=100"`
}

func parsePriceParam(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetProducts lists active products
// GET /api/v1/products?category_slug=&min_price=&max_price=&search=&page=&size=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	minPrice, err := parsePriceParam(query.MinPrice)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "min_price must be a number")
		return
	}
	maxPrice, err := parsePriceParam(query.MaxPrice)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "max_price must be a number")
		return
	}

	page, err := ctrl.productService.List(service.ProductListQuery{
		CategorySlug: query.CategorySlug,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Search:       query.Search,
		Sort:         repository.ProductSort(query.Sort),
		Page:         intValue(query.Page),
		Size:         intValue(query.Size),
	})
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetProductBySlug returns an active product
// GET /api/v1/products/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	product, err := ctrl.productService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// AdminListProducts lists every product including inactive ones
// GET /api/v1/admin/products
func (ctrl *ProductController) AdminListProducts(c *gin.Context) {
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	page, err := ctrl.productService.ListAll(intValue(query.Page), intValue(query.Size))
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, page)
}

// AdminGetProduct returns a product by id regardless of status
// GET /api/v1/admin/products/:id
func (ctrl *ProductController) AdminGetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetByID(id)
	if err != nil {
		respondError(c, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := ctrl.productService.Create(service.ProductInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Images:        req.Images,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondError(c, err, "create product")
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct applies a partial update
// PATCH /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := ctrl.productService.Update(id, service.ProductUpdate{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		ClearDiscount: req.ClearDiscount,
		Images:        req.Images,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a product that no order references
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(id); err != nil {
		respondError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
