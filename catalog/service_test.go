package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"agrimart/apperr"
	"agrimart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mirrors the Mongo store's paging and search semantics over an
// ordered in-memory slice.
type memStore struct {
	mu    sync.Mutex
	items []models.Product
}

func (s *memStore) matching(search string) []models.Product {
	out := []models.Product{}
	q := strings.ToLower(search)
	for _, p := range s.items {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) List(_ context.Context, page, limit int, search string) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.matching(search)
	total := int64(len(matched))

	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]models.Product, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func (s *memStore) ListByFarmer(_ context.Context, farmerID string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Product{}
	for _, p := range s.items {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, apperr.New(apperr.NotFound, "Product not found")
}

func (s *memStore) GetMany(_ context.Context, ids []string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Product{}
	for _, p := range s.items {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) Insert(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == p.ID {
			return apperr.New(apperr.Conflict, "Product already exists")
		}
	}
	s.items = append(s.items, p)
	return nil
}

func (s *memStore) Update(_ context.Context, id string, upd models.ProductUpdate) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		p := &s.items[i]
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.Unit != nil {
			p.Unit = *upd.Unit
		}
		if upd.Category != nil {
			p.Category = *upd.Category
		}
		if upd.Organic != nil {
			p.Organic = *upd.Organic
		}
		if upd.InStock != nil {
			p.InStock = *upd.InStock
		}
		if upd.Quantity != nil {
			p.Quantity = *upd.Quantity
		}
		if upd.Image != nil {
			p.Image = *upd.Image
		}
		p.UpdatedAt = time.Now()
		return *p, nil
	}
	return models.Product{}, apperr.New(apperr.NotFound, "Product not found")
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "Product not found")
}

type memFarmers struct{ farmers map[string]models.Farmer }

func (m *memFarmers) Farmers(_ context.Context, ids []string) (map[string]models.Farmer, error) {
	out := make(map[string]models.Farmer)
	for _, id := range ids {
		if f, ok := m.farmers[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func newTestService(products ...models.Product) (*Service, *memStore) {
	store := &memStore{items: products}
	farmers := &memFarmers{farmers: map[string]models.Farmer{
		"f1": {ID: "f1", Name: "Green Valley", Location: "Nashik"},
	}}
	// nil cache: reads always hit the store.
	return NewService(store, farmers, nil), store
}

func seedCrops(n int, name string) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Product{
			ID:       fmt.Sprintf("%s-%02d", strings.ToLower(name), i),
			Name:     fmt.Sprintf("%s %d", name, i),
			Category: models.CategoryVegetables,
			FarmerID: "f1",
			Price:    float64(10 + i),
		})
	}
	return out
}

func TestListFirstPageDefaultLimit(t *testing.T) {
	svc, _ := newTestService(seedCrops(15, "Tomato")...)

	page, err := svc.List(context.Background(), 1, 12, "tomato")
	require.NoError(t, err)
	assert.Len(t, page.Products, 12)
	assert.Equal(t, int64(15), page.Total)
}

func TestListPagesAreDisjointAndTotalStable(t *testing.T) {
	svc, _ := newTestService(seedCrops(15, "Tomato")...)
	ctx := context.Background()

	p1, err := svc.List(ctx, 1, 12, "")
	require.NoError(t, err)
	p2, err := svc.List(ctx, 2, 12, "")
	require.NoError(t, err)

	assert.Equal(t, p1.Total, p2.Total)
	assert.Len(t, p2.Products, 3)

	seen := make(map[string]bool)
	for _, p := range p1.Products {
		seen[p.ID] = true
	}
	for _, p := range p2.Products {
		assert.False(t, seen[p.ID], "product %s appears on both pages", p.ID)
	}
}

func TestListPastEndIsEmpty(t *testing.T) {
	svc, _ := newTestService(seedCrops(5, "Tomato")...)

	page, err := svc.List(context.Background(), 3, 12, "")
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, int64(5), page.Total)
}

func TestListSearchMatchesNameOrDescription(t *testing.T) {
	svc, _ := newTestService(
		models.Product{ID: "a", Name: "Cherry Tomato", FarmerID: "f1"},
		models.Product{ID: "b", Name: "Paneer", Description: "Pairs well with tomato gravy", FarmerID: "f1"},
		models.Product{ID: "c", Name: "Basmati Rice", FarmerID: "f1"},
	)

	page, err := svc.List(context.Background(), 1, 12, "Tomato")
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, int64(2), page.Total)

	got := []string{page.Products[0].ID, page.Products[1].ID}
	sort.Strings(got)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestListAttachesFarmer(t *testing.T) {
	svc, _ := newTestService(seedCrops(1, "Tomato")...)

	page, err := svc.List(context.Background(), 1, 12, "")
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.NotNil(t, page.Products[0].Farmer)
	assert.Equal(t, "Green Valley", page.Products[0].Farmer.Name)
}

func TestGetUnknownProduct(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "ghost")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	svc, store := newTestService()

	created, err := svc.Create(context.Background(), "f1", models.Product{
		Name:     "Okra",
		Category: models.CategoryVegetables,
		Price:    30,
		FarmerID: "f1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	require.Len(t, store.items, 1)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		p    models.Product
	}{
		{"missing farmerId", models.Product{Name: "Okra", Category: models.CategoryVegetables}},
		{"missing name", models.Product{FarmerID: "f1", Category: models.CategoryVegetables}},
		{"bad category", models.Product{Name: "Okra", FarmerID: "f1", Category: "gadgets"}},
		{"negative price", models.Product{Name: "Okra", FarmerID: "f1", Category: models.CategoryVegetables, Price: -1}},
		{"negative quantity", models.Product{Name: "Okra", FarmerID: "f1", Category: models.CategoryVegetables, Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "f1", tc.p)
			assert.True(t, apperr.Is(err, apperr.BadRequest), "got %v", err)
		})
	}
}

func TestCreateForAnotherFarmerForbidden(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "f1", models.Product{
		Name: "Okra", Category: models.CategoryVegetables, FarmerID: "f2",
	})
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestUpdateByOwner(t *testing.T) {
	svc, _ := newTestService(models.Product{
		ID: "p1", Name: "Okra", Category: models.CategoryVegetables, Price: 30, FarmerID: "f1",
	})

	price := 45.0
	updated, err := svc.Update(context.Background(), "f1", "p1", models.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.Price)
	assert.Equal(t, "Okra", updated.Name)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	svc, _ := newTestService(models.Product{
		ID: "p1", Name: "Okra", Category: models.CategoryVegetables, FarmerID: "f1",
	})

	price := 45.0
	_, err := svc.Update(context.Background(), "f2", "p1", models.ProductUpdate{Price: &price})
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	svc, store := newTestService(models.Product{
		ID: "p1", Name: "Okra", Category: models.CategoryVegetables, FarmerID: "f1",
	})

	err := svc.Delete(context.Background(), "f2", "p1")
	assert.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Len(t, store.items, 1)

	require.NoError(t, svc.Delete(context.Background(), "f1", "p1"))
	assert.Empty(t, store.items)
}

func TestListByFarmer(t *testing.T) {
	svc, _ := newTestService(
		models.Product{ID: "p1", Name: "Okra", FarmerID: "f1"},
		models.Product{ID: "p2", Name: "Apple", FarmerID: "f2"},
	)

	items, err := svc.ListByFarmer(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)

	_, err = svc.ListByFarmer(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.BadRequest))
}
