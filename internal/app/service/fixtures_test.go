package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createServiceTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test Shopper",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

// createServiceTestProduct creates an active product; discount may be "".
func createServiceTestProduct(t *testing.T, testDB *gorm.DB, slug, price, discount string, stock int) *model.Product {
	product := &model.Product{
		Name:     fmt.Sprintf("Product %s", slug),
		Slug:     slug,
		Price:    decimal.RequireFromString(price),
		Images:   model.StringList{fmt.Sprintf("https://cdn.example.com/%s-1.jpg", slug), fmt.Sprintf("https://cdn.example.com/%s-2.jpg", slug)},
		Sizes:    model.StringList{"S", "M", "L"},
		Colors:   model.StringList{"Black", "White"},
		Stock:    stock,
		IsActive: true,
	}
	if discount != "" {
		d := decimal.RequireFromString(discount)
		product.DiscountPrice = &d
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func productStock(t *testing.T, testDB *gorm.DB, id uint) int {
	var product model.Product
	require.NoError(t, testDB.First(&product, id).Error)
	return product.Stock
}

func countRows(t *testing.T, testDB *gorm.DB, value interface{}) int64 {
	var count int64
	require.NoError(t, testDB.Model(value).Count(&count).Error)
	return count
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[uint]int
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: map[uint]int{}}
}

func (p *recordingPublisher) PublishStock(productID uint, stock int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[productID] = stock
}

func (p *recordingPublisher) snapshot() map[uint]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[uint]int, len(p.events))
	for k, v := range p.events {
		out[k] = v
	}
	return out
}
