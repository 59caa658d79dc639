package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	Name          string           `gorm:"size:200;not null" json:"name"`
	Slug          string           `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description   string           `gorm:"type:text" json:"description"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_price"`
	Images        StringList       `gorm:"not null" json:"images"`
	Sizes         StringList       `gorm:"not null" json:"sizes"`
	Colors        StringList       `gorm:"not null" json:"colors"`
	Stock         int              `gorm:"not null;check:stock >= 0" json:"stock"`
	CategoryID    *uint            `gorm:"index" json:"category_id"`
	IsActive      bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the unit price a buyer pays right now: the discount price when set.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
