package models

import "time"

// OrderLine snapshots a cart row at checkout so later product edits do not
// rewrite order history.
type OrderLine struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Unit      string  `json:"unit" bson:"unit"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type Order struct {
	OrderID   string      `json:"orderId" bson:"_id"`
	UserID    string      `json:"userId" bson:"userId"`
	Lines     []OrderLine `json:"lines" bson:"lines"`
	Total     float64     `json:"total" bson:"total"`
	Status    string      `json:"status" bson:"status"` // "pending", "completed"
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}
