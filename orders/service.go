package orders

import (
	"context"
	"fmt"
	"time"

	"agrimart/apperr"
	"agrimart/cart"
	"agrimart/models"
	"agrimart/utils"
)

type Service struct {
	store Store
	carts *cart.Service
}

func NewService(store Store, carts *cart.Service) *Service {
	return &Service{store: store, carts: carts}
}

// Place snapshots the user's cart into an order and clears the cart.
// Orphaned cart rows were already dropped by the cart read, so every line
// references a product that existed at checkout.
func (s *Service) Place(ctx context.Context, userID string) (models.Order, error) {
	if userID == "" {
		return models.Order{}, apperr.New(apperr.BadRequest, "userId required")
	}

	items, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	if len(items) == 0 {
		return models.Order{}, apperr.New(apperr.BadRequest, "Cart is empty")
	}

	lines := make([]models.OrderLine, 0, len(items))
	var total float64
	for _, it := range items {
		lines = append(lines, models.OrderLine{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Unit:      it.Product.Unit,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		})
		total += it.Product.Price * float64(it.Quantity)
	}

	order := models.Order{
		OrderID:   fmt.Sprintf("ORD%d%s", time.Now().Unix()%1e6, utils.GenerateRandomDigitString(4)),
		UserID:    userID,
		Lines:     lines,
		Total:     total,
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	if err := s.store.Insert(ctx, order); err != nil {
		return models.Order{}, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists; a stale cart is recoverable by the user.
		return order, nil
	}
	return order, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, apperr.New(apperr.BadRequest, "userId required")
	}
	return s.store.ListByUser(ctx, userID)
}

// GetMine fetches one order, enforcing ownership.
func (s *Service) GetMine(ctx context.Context, userID, orderID string) (models.Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if o.UserID != userID {
		return models.Order{}, apperr.New(apperr.Forbidden, "Not your order")
	}
	return o, nil
}
