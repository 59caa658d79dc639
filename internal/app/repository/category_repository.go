package repository

import (
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll(parentID *uint) ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	CountProducts(categoryID uint) (int64, error)
	Updates(category *model.Category, fields map[string]interface{}) error
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

// FindAll lists categories by name; a non-nil parentID restricts the list to its children.
func (r *categoryRepository) FindAll(parentID *uint) ([]model.Category, error) {
	query := r.db.Order("name ASC")
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	}

	categories := []model.Category{}
	if err := query.Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) CountProducts(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ? AND is_active = ?", categoryID, true).Count(&count).Error
	return count, err
}

func (r *categoryRepository) Updates(category *model.Category, fields map[string]interface{}) error {
	if len(fields) > 0 {
		if err := r.db.Model(category).Updates(fields).Error; err != nil {
			logger.Error("Failed to update category in database", err, map[string]interface{}{
				"category_id": category.ID,
			})
			return err
		}
	}
	return r.db.First(category, category.ID).Error
}

func (r *categoryRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Category{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete category from database", res.Error, map[string]interface{}{
			"category_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
