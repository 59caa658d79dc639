package service

import (
	"errors"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemAlreadyExists = errors.New("item already in wishlist")
	ErrWishlistItemNotFound      = errors.New("wishlist item not found")
)

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	AddToWishlist(userID, productID uint) (*model.WishlistItem, error)
	RemoveFromWishlist(userID, productID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User wishlist fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

// AddToWishlist relies on the (user_id, product_id) key to reject duplicates.
func (s *wishlistService) AddToWishlist(userID, productID uint) (*model.WishlistItem, error) {
	logger.Info("Adding item to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	created, err := s.wishlistRepo.Create(item)
	if err != nil {
		logger.Error("Failed to create wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}
	if !created {
		logger.Warn("Product already in wishlist", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrWishlistItemAlreadyExists
	}

	item.Product = product
	logger.Info("Item added to wishlist successfully", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return item, nil
}

func (s *wishlistService) RemoveFromWishlist(userID, productID uint) error {
	removed, err := s.wishlistRepo.Delete(userID, productID)
	if err != nil {
		logger.Error("Failed to remove wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}
	if !removed {
		return ErrWishlistItemNotFound
	}

	logger.Info("Item removed from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}
