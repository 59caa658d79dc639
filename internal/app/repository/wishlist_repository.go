package repository

import (
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	// Create reports false when the (user, product) pair already exists.
	Create(item *model.WishlistItem) (bool, error)
	FindByUserID(userID uint) ([]model.WishlistItem, error)
	Delete(userID, productID uint) (bool, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Create(item *model.WishlistItem) (bool, error) {
	logger.Debug("Creating wishlist item in database", map[string]interface{}{
		"user_id":    item.UserID,
		"product_id": item.ProductID,
	})

	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(item)
	if res.Error != nil {
		logger.Error("Failed to create wishlist item in database", res.Error, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
		})
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *wishlistRepository) FindByUserID(userID uint) ([]model.WishlistItem, error) {
	items := []model.WishlistItem{}
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find wishlist items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Wishlist items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

func (r *wishlistRepository) Delete(userID, productID uint) (bool, error) {
	res := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.WishlistItem{})
	if res.Error != nil {
		logger.Error("Failed to delete wishlist item from database", res.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
