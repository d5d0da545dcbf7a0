package cart

import (
	"context"

	"agrimart/apperr"
	"agrimart/models"
)

// ProductSource and FarmerSource are the catalog slices the cart needs for
// display expansion. The Mongo catalog store and user store satisfy them.
type ProductSource interface {
	Get(ctx context.Context, id string) (models.Product, error)
	GetMany(ctx context.Context, ids []string) ([]models.Product, error)
}

type FarmerSource interface {
	Farmers(ctx context.Context, ids []string) (map[string]models.Farmer, error)
}

// Service implements the cart operations. Every mutation returns the full
// refreshed cart so the client never reconciles partial updates.
type Service struct {
	store    Store
	products ProductSource
	farmers  FarmerSource
}

func NewService(store Store, products ProductSource, farmers FarmerSource) *Service {
	return &Service{store: store, products: products, farmers: farmers}
}

// GetCart returns the user's rows with product and farmer attached. Rows
// whose product has since been deleted are dropped from the response
// rather than cascaded at delete time.
func (s *Service) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	if userID == "" {
		return nil, apperr.New(apperr.BadRequest, "userId required")
	}

	items, err := s.store.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, items)
}

// Add merges quantity into an existing row or creates one.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error) {
	if userID == "" || productID == "" {
		return nil, apperr.New(apperr.BadRequest, "userId and productId required")
	}
	if quantity <= 0 {
		return nil, apperr.New(apperr.BadRequest, "Quantity must be positive")
	}

	// The referenced product must exist; a dangling add is a 404, not a
	// silent cart row.
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.store.AddQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// SetQuantity overwrites the row's quantity; zero or negative deletes it.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error) {
	if userID == "" || productID == "" {
		return nil, apperr.New(apperr.BadRequest, "userId and productId required")
	}

	if quantity <= 0 {
		if err := s.store.Delete(ctx, userID, productID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID)
	}

	if err := s.store.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// Remove deletes the row unconditionally.
func (s *Service) Remove(ctx context.Context, userID, productID string) ([]models.CartItem, error) {
	if userID == "" || productID == "" {
		return nil, apperr.New(apperr.BadRequest, "userId and productId required")
	}

	if err := s.store.Delete(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the cart. Used after order placement.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.New(apperr.BadRequest, "userId required")
	}
	return s.store.DeleteAll(ctx, userID)
}

func (s *Service) expand(ctx context.Context, items []models.CartItem) ([]models.CartItem, error) {
	if len(items) == 0 {
		return []models.CartItem{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	farmerIDs := make([]string, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		byID[p.ID] = p
		if p.FarmerID != "" && !seen[p.FarmerID] {
			seen[p.FarmerID] = true
			farmerIDs = append(farmerIDs, p.FarmerID)
		}
	}

	farmers, err := s.farmers.Farmers(ctx, farmerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue // orphaned row, product was deleted
		}
		if f, exists := farmers[p.FarmerID]; exists {
			cp := f
			p.Farmer = &cp
		}
		it.Product = &p
		out = append(out, it)
	}
	return out, nil
}
