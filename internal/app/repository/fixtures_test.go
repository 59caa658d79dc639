package repository

import (
	"fmt"
	"testing"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
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

func createTestProduct(t *testing.T, testDB *gorm.DB, slug string, price string, stock int) *model.Product {
	product := &model.Product{
		Name:     fmt.Sprintf("Product %s", slug),
		Slug:     slug,
		Price:    decimal.RequireFromString(price),
		Images:   model.StringList{fmt.Sprintf("https://cdn.example.com/%s.jpg", slug)},
		Sizes:    model.StringList{"S", "M", "L"},
		Colors:   model.StringList{"Black"},
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createTestAddress(t *testing.T, testDB *gorm.DB, userID uint, label string, isDefault bool) *model.Address {
	address := &model.Address{
		UserID:    userID,
		Label:     label,
		Street:    "12 Mall Road",
		City:      "Lahore",
		Province:  "Punjab",
		Phone:     "03001234567",
		IsDefault: isDefault,
	}
	require.NoError(t, testDB.Create(address).Error)
	return address
}
