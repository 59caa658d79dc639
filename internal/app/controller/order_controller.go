package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderLineRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size" binding:"max=30"`
	Color     string `json:"color" binding:"max=50"`
}

// Quantity is validated by the service so the failing line index can be reported.
type CreateOrderRequest struct {
	ShippingAddressID uint               `json:"shipping_address_id" binding:"required"`
	PaymentMethod     string             `json:"payment_method" binding:"required"`
	Items             []OrderLineRequest `json:"items" binding:"dive"`
}

type ListOrdersQuery struct {
	Page *int `form:"page" binding:"omitempty,min=1"`
	Size *int `form:"size" binding:"omitempty,min=1,max=100"`
}

type OrderItemResponse struct {
	ID              uint            `json:"id"`
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSlug     string          `json:"product_slug"`
	ProductImage    string          `json:"product_image,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Size            string          `json:"size,omitempty"`
	Color           string          `json:"color,omitempty"`
}

type OrderResponse struct {
	ID                uint                  `json:"id"`
	Status            model.OrderStatus     `json:"status"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	PaymentMethod     string                `json:"payment_method"`
	ShippingAddressID uint                  `json:"shipping_address_id"`
	ShippingAddress   model.AddressSnapshot `json:"shipping_address"`
	Items             []OrderItemResponse   `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
}

func newOrderResponse(order *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		resp := OrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			LineTotal:       item.LineTotal(),
			Size:            item.Size,
			Color:           item.Color,
		}
		if item.Product != nil {
			resp.ProductName = item.Product.Name
			resp.ProductSlug = item.Product.Slug
			if len(item.Product.Images) > 0 {
				resp.ProductImage = item.Product.Images[0]
			}
		}
		items = append(items, resp)
	}

	return OrderResponse{
		ID:                order.ID,
		Status:            order.Status,
		TotalAmount:       order.TotalAmount,
		PaymentMethod:     order.PaymentMethod,
		ShippingAddressID: order.ShippingAddressID,
		ShippingAddress:   order.ShippingAddress,
		Items:             items,
		CreatedAt:         order.CreatedAt,
	}
}

// CreateOrder places an order atomically
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lines := make([]service.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, service.PlaceOrderInput{
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
		Items:             lines,
	})
	if err != nil {
		respondError(c, err, "place order")
		return
	}

	log.Info("Order placed successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount.String(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   newOrderResponse(order),
	})
}

// GetOrders returns the user's orders, newest first
// GET /api/v1/orders?page=&size=
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	page, err := ctrl.orderService.ListOrders(c.Request.Context(), userID, intValue(query.Page), intValue(query.Size))
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	orders := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		orders = append(orders, newOrderResponse(&page.Items[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"total": page.Total,
		"page":  page.Page,
		"size":  page.Size,
		"items": orders,
	})
}

// GetOrderByID returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": newOrderResponse(order),
	})
}
