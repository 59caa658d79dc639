package service

import (
	"errors"
	"strings"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/hanzla-outlet/outlet-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrInvalidCategoryParent = errors.New("invalid parent category")
	ErrInvalidName           = errors.New("name is required")
	ErrInvalidSlug           = errors.New("slug must contain letters or digits")
)

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uint
}

// CategoryUpdate carries the fields to change. ClearParent moves the category to the root.
type CategoryUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	ParentID    *uint
	ClearParent bool
}

type CategoryDetail struct {
	model.Category
	ProductsCount int64 `json:"products_count"`
}

type CategoryService interface {
	List(parentID *uint) ([]model.Category, error)
	GetBySlug(slug string) (*CategoryDetail, error)
	Create(input CategoryInput) (*model.Category, error)
	Update(id uint, update CategoryUpdate) (*model.Category, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(parentID *uint) ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll(parentID)
	if err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) GetBySlug(slug string) (*CategoryDetail, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	count, err := s.categoryRepo.CountProducts(category.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: *category, ProductsCount: count}, nil
}

func (s *categoryService) checkParent(id, parentID uint) error {
	if id != 0 && id == parentID {
		return ErrInvalidCategoryParent
	}
	if _, err := s.categoryRepo.FindByID(parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCategoryParent
		}
		return err
	}
	return nil
}

func (s *categoryService) Create(input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	slug := util.Slugify(input.Slug)
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}

	if input.ParentID != nil {
		if err := s.checkParent(0, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		ParentID:    input.ParentID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *categoryService) Update(id uint, update CategoryUpdate) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		fields["name"] = name
	}
	if update.Slug != nil {
		slug := util.Slugify(*update.Slug)
		if slug == "" {
			return nil, ErrInvalidSlug
		}
		fields["slug"] = slug
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	switch {
	case update.ClearParent:
		fields["parent_id"] = nil
	case update.ParentID != nil:
		if err := s.checkParent(id, *update.ParentID); err != nil {
			return nil, err
		}
		fields["parent_id"] = *update.ParentID
	}

	if err := s.categoryRepo.Updates(category, fields); err != nil {
		return nil, err
	}

	logger.Info("Category updated", map[string]interface{}{
		"category_id": id,
	})
	return category, nil
}

// Delete removes the category. Its products and children lose their category reference.
func (s *categoryService) Delete(id uint) error {
	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
