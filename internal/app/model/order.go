package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Only the initial status is produced here; later transitions belong to fulfilment tooling.
const (
	OrderStatusPending OrderStatus = "pending"
)

type Order struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null" json:"status"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod     string          `gorm:"size:30;not null" json:"payment_method"`
	ShippingAddressID uint            `gorm:"not null;index" json:"shipping_address_id"`
	ShippingAddress   AddressSnapshot `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	User    *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Address *Address    `gorm:"foreignKey:ShippingAddressID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// RecomputeTotal sums quantity × price_at_purchase over the persisted lines.
func (o *Order) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type OrderItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	Quantity        int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
	Size            string          `gorm:"size:30" json:"size,omitempty"`
	Color           string          `gorm:"size:50" json:"color,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
