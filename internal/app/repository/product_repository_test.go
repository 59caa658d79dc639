package repository

import (
	"testing"
	"time"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepository_StringListRoundTrip(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProductRepository(testDB)

	product := &model.Product{
		Name:     "Embroidered Shawl",
		Slug:     "embroidered-shawl",
		Price:    decimal.RequireFromString("3499.50"),
		Images:   model.StringList{"https://cdn.example.com/a b.jpg", "https://cdn.example.com/c,d.jpg"},
		Colors:   model.StringList{"Maroon", "Off \"White\""},
		Stock:    4,
		IsActive: true,
	}
	require.NoError(t, repo.Create(product))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Images, found.Images)
	assert.Equal(t, product.Colors, found.Colors)
	assert.Empty(t, found.Sizes)
	assert.True(t, decimal.RequireFromString("3499.50").Equal(found.Price))
	assert.Nil(t, found.DiscountPrice)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProductRepository(testDB)

	women := &model.Category{Name: "Women", Slug: "women"}
	require.NoError(t, testDB.Create(women).Error)

	kurta := createTestProduct(t, testDB, "lawn-kurta", "2500", 5)
	testDB.Model(kurta).Updates(map[string]interface{}{"category_id": women.ID, "description": "Printed summer LAWN"})
	time.Sleep(5 * time.Millisecond)
	createTestProduct(t, testDB, "denim-jacket", "6000", 2)
	time.Sleep(5 * time.Millisecond)
	hidden := createTestProduct(t, testDB, "hidden-scarf", "900", 3)
	testDB.Model(hidden).Update("is_active", false)

	tests := []struct {
		name      string
		filter    ProductFilter
		wantSlugs []string
	}{
		{
			name:      "Active only newest first",
			filter:    ProductFilter{ActiveOnly: true},
			wantSlugs: []string{"denim-jacket", "lawn-kurta"},
		},
		{
			name:      "Include inactive",
			filter:    ProductFilter{},
			wantSlugs: []string{"hidden-scarf", "denim-jacket", "lawn-kurta"},
		},
		{
			name:      "Category slug",
			filter:    ProductFilter{ActiveOnly: true, CategorySlug: "women"},
			wantSlugs: []string{"lawn-kurta"},
		},
		{
			name:      "Case-insensitive search in description",
			filter:    ProductFilter{ActiveOnly: true, Search: "lawn"},
			wantSlugs: []string{"lawn-kurta"},
		},
		{
			name: "Price range",
			filter: ProductFilter{
				ActiveOnly: true,
				MinPrice:   decimalPtr("3000"),
				MaxPrice:   decimalPtr("7000"),
			},
			wantSlugs: []string{"denim-jacket"},
		},
		{
			name:      "Price ascending",
			filter:    ProductFilter{ActiveOnly: true, SortBy: ProductSortPriceAsc},
			wantSlugs: []string{"lawn-kurta", "denim-jacket"},
		},
		{
			name:      "Pagination",
			filter:    ProductFilter{ActiveOnly: true, Limit: 1, Offset: 1},
			wantSlugs: []string{"lawn-kurta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, _, err := repo.FindWithFilter(tt.filter)
			require.NoError(t, err)

			slugs := make([]string, 0, len(products))
			for _, p := range products {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.wantSlugs, slugs)
		})
	}

	_, total, err := repo.FindWithFilter(ProductFilter{ActiveOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestProductRepository_FindBySlug_ActiveOnly(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProductRepository(testDB)
	product := createTestProduct(t, testDB, "silk-dupatta", "1500", 1)
	testDB.Model(product).Update("is_active", false)

	_, err := repo.FindBySlug("silk-dupatta", true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindBySlug("silk-dupatta", false)
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestProductRepository_DecrementStock_Guarded(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProductRepository(testDB)
	product := createTestProduct(t, testDB, "linen-shirt", "3000", 5)

	ok, err := repo.DecrementStock(product.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(product.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Stock)
}

func TestProductRepository_LockByIDs_AscendingOrder(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProductRepository(testDB)
	a := createTestProduct(t, testDB, "a", "100", 1)
	b := createTestProduct(t, testDB, "b", "100", 1)

	var locked []model.Product
	err := testDB.Transaction(func(tx *gorm.DB) error {
		var err error
		locked, err = repo.WithTx(tx).LockByIDs([]uint{b.ID, a.ID, 999})
		return err
	})
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, a.ID, locked[0].ID)
	assert.Equal(t, b.ID, locked[1].ID)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewProductRepository(testDB)
	product := createTestProduct(t, testDB, "to-delete", "100", 1)

	require.NoError(t, repo.Delete(product.ID))
	assert.ErrorIs(t, repo.Delete(product.ID), gorm.ErrRecordNotFound)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
