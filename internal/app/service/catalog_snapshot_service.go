package service

import (
	"context"
	"time"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
)

const (
	catalogSnapshotKey   = "catalog:active_products"
	catalogSnapshotLimit = 500
)

// SnapshotCache is a JSON key/value cache with expiry.
type SnapshotCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CatalogSnapshotService serves a read-only list of active products to advisory readers.
type CatalogSnapshotService interface {
	Refresh(ctx context.Context) (int, error)
	ActiveProducts(ctx context.Context) ([]model.Product, error)
}

type catalogSnapshotService struct {
	productRepo repository.ProductRepository
	cache       SnapshotCache
	ttl         time.Duration
}

// NewCatalogSnapshotService builds the service; cache may be nil, in which case every
// read goes to the database.
func NewCatalogSnapshotService(productRepo repository.ProductRepository, cache SnapshotCache, ttl time.Duration) CatalogSnapshotService {
	return &catalogSnapshotService{
		productRepo: productRepo,
		cache:       cache,
		ttl:         ttl,
	}
}

func (s *catalogSnapshotService) Refresh(ctx context.Context) (int, error) {
	products, err := s.productRepo.FindActive(catalogSnapshotLimit)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogSnapshotKey, products, s.ttl); err != nil {
			logger.Error("Failed to store catalog snapshot", err, nil)
			return 0, err
		}
	}

	logger.Info("Catalog snapshot refreshed", map[string]interface{}{
		"products": len(products),
	})
	return len(products), nil
}

func (s *catalogSnapshotService) ActiveProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		var products []model.Product
		found, err := s.cache.GetJSON(ctx, catalogSnapshotKey, &products)
		if err != nil {
			logger.Warn("Catalog snapshot cache read failed, using database", map[string]interface{}{
				"error": err.Error(),
			})
		} else if found {
			return products, nil
		}
	}

	products, err := s.productRepo.FindActive(catalogSnapshotLimit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogSnapshotKey, products, s.ttl); err != nil {
			logger.Warn("Failed to warm catalog snapshot cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return products, nil
}
