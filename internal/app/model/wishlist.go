package model

import "time"

// WishlistItem is keyed by (user, product); a second insert of the same pair is rejected by the primary key.
type WishlistItem struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProductID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"product_id"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
