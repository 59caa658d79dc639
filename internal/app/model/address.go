package model

import (
	"time"

	"gorm.io/gorm"
)

// Address is a saved shipping address. At most one live address per user has IsDefault set;
// the partial unique index backs that up at the storage layer.
type Address struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index;uniqueIndex:idx_addresses_one_default,where:is_default = true AND deleted_at IS NULL" json:"user_id"`
	Label      string         `gorm:"size:50" json:"label"` // "Home", "Office"
	Street     string         `gorm:"size:255;not null" json:"street"`
	City       string         `gorm:"size:100;not null" json:"city"`
	Province   string         `gorm:"size:100" json:"province"`
	PostalCode string         `gorm:"size:20" json:"postal_code"`
	Phone      string         `gorm:"size:32" json:"phone"`
	IsDefault  bool           `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"` // soft delete keeps the orders' RESTRICT FK satisfied

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}

// Snapshot copies the printable fields for freezing into an order.
func (a *Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Label:      a.Label,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Phone:      a.Phone,
	}
}

// AddressSnapshot is the shipping address as it was when an order was placed.
type AddressSnapshot struct {
	Label      string `gorm:"size:50" json:"label"`
	Street     string `gorm:"size:255" json:"street"`
	City       string `gorm:"size:100" json:"city"`
	Province   string `gorm:"size:100" json:"province"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
	Phone      string `gorm:"size:32" json:"phone"`
}
