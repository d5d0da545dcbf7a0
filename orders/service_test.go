package orders

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"agrimart/apperr"
	"agrimart/cart"
	"agrimart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
}

func (s *memOrderStore) Insert(_ context.Context, o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
	return nil
}

func (s *memOrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOrderStore) Get(_ context.Context, orderID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return models.Order{}, apperr.New(apperr.NotFound, "Order not found")
}

type memCartStore struct {
	mu   sync.Mutex
	rows map[string]models.CartItem // userID|productID
}

func (s *memCartStore) Items(_ context.Context, userID string) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.CartItem{}
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memCartStore) AddQuantity(_ context.Context, userID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userID + "|" + productID
	r, ok := s.rows[k]
	if !ok {
		r = models.CartItem{UserID: userID, ProductID: productID, AddedAt: time.Now()}
	}
	r.Quantity += qty
	s.rows[k] = r
	return nil
}

func (s *memCartStore) SetQuantity(_ context.Context, userID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userID + "|" + productID
	r, ok := s.rows[k]
	if !ok {
		r = models.CartItem{UserID: userID, ProductID: productID, AddedAt: time.Now()}
	}
	r.Quantity = qty
	s.rows[k] = r
	return nil
}

func (s *memCartStore) Delete(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, userID+"|"+productID)
	return nil
}

func (s *memCartStore) DeleteAll(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.rows {
		if r.UserID == userID {
			delete(s.rows, k)
		}
	}
	return nil
}

type memProducts struct{ products map[string]models.Product }

func (m *memProducts) Get(_ context.Context, id string) (models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, apperr.New(apperr.NotFound, "Product not found")
	}
	return p, nil
}

func (m *memProducts) GetMany(_ context.Context, ids []string) ([]models.Product, error) {
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type memFarmers struct{}

func (memFarmers) Farmers(_ context.Context, ids []string) (map[string]models.Farmer, error) {
	return map[string]models.Farmer{}, nil
}

func newTestService() (*Service, *cart.Service) {
	products := &memProducts{products: map[string]models.Product{
		"p1": {ID: "p1", Name: "Tomato", Unit: "kg", Price: 40, FarmerID: "f1"},
		"p2": {ID: "p2", Name: "Apple", Unit: "kg", Price: 120, FarmerID: "f1"},
	}}
	carts := cart.NewService(&memCartStore{rows: map[string]models.CartItem{}}, products, memFarmers{})
	return NewService(&memOrderStore{}, carts), carts
}

func TestPlaceSnapshotsCartAndClearsIt(t *testing.T) {
	svc, carts := newTestService()
	ctx := context.Background()

	_, err := carts.Add(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	_, err = carts.Add(ctx, "u1", "p2", 1)
	require.NoError(t, err)

	order, err := svc.Place(ctx, "u1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderID, "ORD"))
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 200.0, order.Total)
	require.Len(t, order.Lines, 2)

	byProduct := map[string]models.OrderLine{}
	for _, l := range order.Lines {
		byProduct[l.ProductID] = l
	}
	assert.Equal(t, "Tomato", byProduct["p1"].Name)
	assert.Equal(t, 2, byProduct["p1"].Quantity)
	assert.Equal(t, 40.0, byProduct["p1"].Price)

	items, err := carts.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPlaceEmptyCart(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Place(context.Background(), "u1")
	assert.True(t, apperr.Is(err, apperr.BadRequest))
	assert.Equal(t, "Cart is empty", apperr.Message(err))
}

func TestListMine(t *testing.T) {
	svc, carts := newTestService()
	ctx := context.Background()

	_, err := carts.Add(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	first, err := svc.Place(ctx, "u1")
	require.NoError(t, err)

	_, err = carts.Add(ctx, "u2", "p2", 1)
	require.NoError(t, err)
	_, err = svc.Place(ctx, "u2")
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.OrderID, mine[0].OrderID)
}

func TestGetMineEnforcesOwnership(t *testing.T) {
	svc, carts := newTestService()
	ctx := context.Background()

	_, err := carts.Add(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	order, err := svc.Place(ctx, "u1")
	require.NoError(t, err)

	got, err := svc.GetMine(ctx, "u1", order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, got.OrderID)

	_, err = svc.GetMine(ctx, "u2", order.OrderID)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = svc.GetMine(ctx, "u1", "ORD000000")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestOrderLinesAreSnapshots(t *testing.T) {
	products := &memProducts{products: map[string]models.Product{
		"p1": {ID: "p1", Name: "Tomato", Unit: "kg", Price: 40, FarmerID: "f1"},
	}}
	carts := cart.NewService(&memCartStore{rows: map[string]models.CartItem{}}, products, memFarmers{})
	svc := NewService(&memOrderStore{}, carts)
	ctx := context.Background()

	_, err := carts.Add(ctx, "u1", "p1", 3)
	require.NoError(t, err)
	order, err := svc.Place(ctx, "u1")
	require.NoError(t, err)

	// A later price change must not rewrite the placed order.
	products.products["p1"] = models.Product{ID: "p1", Name: "Tomato", Unit: "kg", Price: 99, FarmerID: "f1"}

	got, err := svc.GetMine(ctx, "u1", order.OrderID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 40.0, got.Lines[0].Price)
	assert.Equal(t, 120.0, got.Total)
}
