package db

import (
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted type, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.WishlistItem{},
	}
}

// Migrate runs database migrations and seeds reference data
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := Seed(db); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// defaultCategories are the storefront's top-level departments
var defaultCategories = []model.Category{
	{Name: "Men", Slug: "men", Description: "Menswear"},
	{Name: "Women", Slug: "women", Description: "Womenswear"},
	{Name: "Kids", Slug: "kids", Description: "Clothing for children"},
	{Name: "Accessories", Slug: "accessories", Description: "Bags, belts, jewellery and more"},
}

// Seed inserts the root categories when the table is empty. Safe to call repeatedly.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	categories := make([]model.Category, len(defaultCategories))
	copy(categories, defaultCategories)
	if err := db.Create(&categories).Error; err != nil {
		logger.Error("Failed to seed categories", err)
		return err
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}
