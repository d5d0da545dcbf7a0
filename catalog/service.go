package catalog

import (
	"context"
	"fmt"
	"time"

	"agrimart/apperr"
	"agrimart/models"
	"agrimart/rdx"

	"github.com/google/uuid"
)

const cacheTTL = 60 * time.Second

// Page is one catalog window plus the total under the same search
// predicate.
type Page struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// Service owns catalog reads and farmer-scoped mutations. The cache is
// optional; a nil cache simply means every read hits Mongo.
type Service struct {
	store   Store
	farmers FarmerDirectory
	cache   *rdx.Cache
}

func NewService(store Store, farmers FarmerDirectory, cache *rdx.Cache) *Service {
	return &Service{store: store, farmers: farmers, cache: cache}
}

func cacheKey(page, limit int, search string) string {
	return fmt.Sprintf("catalog:p%d:l%d:q%s", page, limit, search)
}

// List returns one page of products with farmer info attached.
func (s *Service) List(ctx context.Context, page, limit int, search string) (Page, error) {
	key := cacheKey(page, limit, search)
	var cached Page
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	items, total, err := s.store.List(ctx, page, limit, search)
	if err != nil {
		return Page{}, err
	}
	if err := s.attachFarmers(ctx, items); err != nil {
		return Page{}, err
	}

	result := Page{Products: items, Total: total}
	s.cache.SetJSON(ctx, key, result, cacheTTL)
	return result, nil
}

func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	if farmerID == "" {
		return nil, apperr.New(apperr.BadRequest, "farmerId query param required")
	}
	return s.store.ListByFarmer(ctx, farmerID)
}

func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	if id == "" {
		return models.Product{}, apperr.New(apperr.BadRequest, "Product ID is required")
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	items := []models.Product{p}
	if err := s.attachFarmers(ctx, items); err != nil {
		return models.Product{}, err
	}
	return items[0], nil
}

func validateAttrs(category string, price float64, quantity int) error {
	if !models.ValidCategory(category) {
		return apperr.New(apperr.BadRequest, "Unknown product category")
	}
	if price < 0 {
		return apperr.New(apperr.BadRequest, "Price must not be negative")
	}
	if quantity < 0 {
		return apperr.New(apperr.BadRequest, "Quantity must not be negative")
	}
	return nil
}

// Create lists a new product owned by the acting farmer.
func (s *Service) Create(ctx context.Context, actorID string, p models.Product) (models.Product, error) {
	if p.FarmerID == "" {
		return models.Product{}, apperr.New(apperr.BadRequest, "farmerId missing in body")
	}
	if p.FarmerID != actorID {
		return models.Product{}, apperr.New(apperr.Forbidden, "Cannot create products for another farmer")
	}
	if p.Name == "" {
		return models.Product{}, apperr.New(apperr.BadRequest, "Product name required")
	}
	if err := validateAttrs(p.Category, p.Price, p.Quantity); err != nil {
		return models.Product{}, err
	}

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.Farmer = nil

	if err := s.store.Insert(ctx, p); err != nil {
		return models.Product{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Update applies a partial update after the ownership check.
func (s *Service) Update(ctx context.Context, actorID, id string, upd models.ProductUpdate) (models.Product, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if existing.FarmerID != actorID {
		return models.Product{}, apperr.New(apperr.Forbidden, "Only the owning farmer can edit this product")
	}

	if upd.Category != nil && !models.ValidCategory(*upd.Category) {
		return models.Product{}, apperr.New(apperr.BadRequest, "Unknown product category")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return models.Product{}, apperr.New(apperr.BadRequest, "Price must not be negative")
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return models.Product{}, apperr.New(apperr.BadRequest, "Quantity must not be negative")
	}

	p, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return models.Product{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.FarmerID != actorID {
		return apperr.New(apperr.Forbidden, "Only the owning farmer can delete this product")
	}

	// Cart rows referencing the product are left in place and filtered
	// out at cart read time.
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.DeletePattern(ctx, "catalog:*")
}

func (s *Service) attachFarmers(ctx context.Context, items []models.Product) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, p := range items {
		if p.FarmerID != "" && !seen[p.FarmerID] {
			seen[p.FarmerID] = true
			ids = append(ids, p.FarmerID)
		}
	}

	farmers, err := s.farmers.Farmers(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if f, ok := farmers[items[i].FarmerID]; ok {
			cp := f
			items[i].Farmer = &cp
		}
	}
	return nil
}
