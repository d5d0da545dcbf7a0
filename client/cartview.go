package client

import (
	"context"
	"sync"
	"time"

	"agrimart/models"
)

// CartAPI is the mutation slice of the API the view needs. *API
// satisfies it; tests substitute a fake.
type CartAPI interface {
	Cart(ctx context.Context) ([]models.CartItem, error)
	AddToCart(ctx context.Context, productID string, quantity int) ([]models.CartItem, error)
	SetQuantity(ctx context.Context, productID string, quantity int) ([]models.CartItem, error)
	RemoveFromCart(ctx context.Context, productID string) ([]models.CartItem, error)
}

// CartView mirrors the server cart with optimistic local updates. Every
// mutation is applied locally first so the UI reacts instantly, then
// reconciled with the server's authoritative refreshed cart. On failure
// the view rolls back to the last server-confirmed snapshot instead of
// drifting.
type CartView struct {
	api CartAPI

	mu        sync.Mutex
	items     []models.CartItem // displayed state
	confirmed []models.CartItem // last server-confirmed snapshot
}

func NewCartView(api CartAPI) *CartView {
	return &CartView{api: api}
}

// Items returns a copy of the displayed cart.
func (c *CartView) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Refresh replaces both states with the server's cart.
func (c *CartView) Refresh(ctx context.Context) error {
	items, err := c.api.Cart(ctx)
	if err != nil {
		return err
	}
	c.confirm(items)
	return nil
}

// Add merges the product into the local view, then reconciles.
func (c *CartView) Add(ctx context.Context, product models.Product, quantity int) error {
	c.mu.Lock()
	merged := false
	for i := range c.items {
		if c.items[i].ProductID == product.ID {
			c.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		p := product
		c.items = append(c.items, models.CartItem{
			ProductID: product.ID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
			Product:   &p,
		})
	}
	c.mu.Unlock()

	items, err := c.api.AddToCart(ctx, product.ID, quantity)
	if err != nil {
		c.rollback()
		return err
	}
	c.confirm(items)
	return nil
}

// SetQuantity overwrites the row locally (removing it at zero), then
// reconciles.
func (c *CartView) SetQuantity(ctx context.Context, productID string, quantity int) error {
	c.mu.Lock()
	if quantity <= 0 {
		c.items = dropRow(c.items, productID)
	} else {
		for i := range c.items {
			if c.items[i].ProductID == productID {
				c.items[i].Quantity = quantity
				break
			}
		}
	}
	c.mu.Unlock()

	items, err := c.api.SetQuantity(ctx, productID, quantity)
	if err != nil {
		c.rollback()
		return err
	}
	c.confirm(items)
	return nil
}

// Remove drops the row locally, then reconciles.
func (c *CartView) Remove(ctx context.Context, productID string) error {
	c.mu.Lock()
	c.items = dropRow(c.items, productID)
	c.mu.Unlock()

	items, err := c.api.RemoveFromCart(ctx, productID)
	if err != nil {
		c.rollback()
		return err
	}
	c.confirm(items)
	return nil
}

func dropRow(items []models.CartItem, productID string) []models.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func (c *CartView) confirm(items []models.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = make([]models.CartItem, len(items))
	copy(c.confirmed, items)
	c.items = make([]models.CartItem, len(items))
	copy(c.items, items)
}

func (c *CartView) rollback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]models.CartItem, len(c.confirmed))
	copy(c.items, c.confirmed)
}
