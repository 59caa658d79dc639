package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	answer string
	err    error
	prompt string
}

func (f *fakeAI) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	c.sets++
	return nil
}

func stylistCatalog() []model.Product {
	mk := func(id uint, name, price string) model.Product {
		return model.Product{ID: id, Name: name, Slug: fmt.Sprintf("p-%d", id), Price: decimal.RequireFromString(price), IsActive: true}
	}
	return []model.Product{
		mk(1, "Women Embroidered Kurta", "4500"),
		mk(2, "Men Shalwar Kameez", "6000"),
		mk(3, "Ladies Chiffon Dupatta", "1800"),
		mk(4, "Girl Frock", "2200"),
		mk(5, "Men Waistcoat", "9000"),
		mk(6, "Women Bridal Lehenga", "65000"),
	}
}

type staticCatalog struct {
	products []model.Product
	err      error
}

func (c staticCatalog) Refresh(context.Context) (int, error) { return len(c.products), c.err }

func (c staticCatalog) ActiveProducts(context.Context) ([]model.Product, error) {
	return c.products, c.err
}

func TestFilterCandidates(t *testing.T) {
	products := stylistCatalog()

	ids := func(ps []model.Product) []uint {
		out := []uint{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []uint{1, 3, 4, 6}, ids(filterCandidates(products, StylistRequest{Gender: "female"})))
	assert.Equal(t, []uint{2, 5}, ids(filterCandidates(products, StylistRequest{Gender: "male"})))

	max := decimal.RequireFromString("5000")
	assert.Equal(t, []uint{1, 3, 4}, ids(filterCandidates(products, StylistRequest{Gender: "female", BudgetMax: &max})))

	min := decimal.RequireFromString("100000")
	assert.Equal(t, []uint{1, 2, 3, 4, 5, 6}, ids(filterCandidates(products, StylistRequest{Gender: "female", BudgetMin: &min})))
}

func TestStylistService_OfflineFallback(t *testing.T) {
	svc := NewStylistService(staticCatalog{products: stylistCatalog()}, &fakeAI{err: ErrAIUnavailable})

	resp, err := svc.Recommend(context.Background(), StylistRequest{Gender: "unisex", Occasion: "Eid"})
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "offline")
	require.Len(t, resp.Recommendations, 4)
	assert.Equal(t, uint(1), resp.Recommendations[0].Product.ID)
	assert.Equal(t, "A popular choice in our store.", resp.Recommendations[0].Reason)
}

func TestStylistService_ModelErrorFallback(t *testing.T) {
	svc := NewStylistService(staticCatalog{products: stylistCatalog()}, &fakeAI{err: errors.New("timeout")})

	resp, err := svc.Recommend(context.Background(), StylistRequest{Gender: "male", Occasion: "Office"})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "Matches your style preferences.", resp.Recommendations[0].Reason)
}

func TestStylistService_ModelAnswerOnlyCandidates(t *testing.T) {
	ai := &fakeAI{answer: "```json\n" + `{"message":"Go bold for the mehndi.","recommendations":[{"product_id":3,"reason":"Light drape"},{"product_id":2,"reason":"Not a candidate"},{"product_id":1,"reason":"Festive embroidery"}]}` + "\n```"}
	svc := NewStylistService(staticCatalog{products: stylistCatalog()}, ai)

	max := decimal.RequireFromString("5000")
	resp, err := svc.Recommend(context.Background(), StylistRequest{Gender: "female", Occasion: "Mehndi", BudgetMax: &max})
	require.NoError(t, err)
	assert.Equal(t, "Go bold for the mehndi.", resp.Message)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, uint(1), resp.Recommendations[0].Product.ID)
	assert.Equal(t, "Festive embroidery", resp.Recommendations[0].Reason)
	assert.Equal(t, uint(3), resp.Recommendations[1].Product.ID)

	assert.Contains(t, ai.prompt, "Mehndi")
	assert.Contains(t, ai.prompt, "Ladies Chiffon Dupatta")
	assert.NotContains(t, ai.prompt, "Men Waistcoat")
}

func TestStylistService_CatalogErrorIsSoft(t *testing.T) {
	svc := NewStylistService(staticCatalog{err: errors.New("db down")}, &fakeAI{})

	resp, err := svc.Recommend(context.Background(), StylistRequest{Gender: "female", Occasion: "Party"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
}

func TestCatalogSnapshotService_CacheThenDatabase(t *testing.T) {
	testDB := setupServiceTestDB(t)
	cache := newMemoryCache()
	svc := NewCatalogSnapshotService(repository.NewProductRepository(testDB), cache, time.Minute)
	ctx := context.Background()

	createServiceTestProduct(t, testDB, "snapshot-a", "100", "", 1)
	hidden := createServiceTestProduct(t, testDB, "snapshot-hidden", "100", "", 1)
	testDB.Model(hidden).Update("is_active", false)

	n, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, cache.sets)

	createServiceTestProduct(t, testDB, "snapshot-b", "100", "", 1)

	products, err := svc.ActiveProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "snapshot-a", products[0].Slug)
	assert.Equal(t, model.StringList{"https://cdn.example.com/snapshot-a-1.jpg", "https://cdn.example.com/snapshot-a-2.jpg"}, products[0].Images)

	noCache := NewCatalogSnapshotService(repository.NewProductRepository(testDB), nil, time.Minute)
	products, err = noCache.ActiveProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
