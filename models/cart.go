package models

import "time"

// CartItem is one (user, product, quantity) row. The (UserID, ProductID)
// pair is unique; quantity is always positive — a quantity collapsing to
// zero deletes the row instead.
type CartItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
	Product   *Product  `json:"product,omitempty" bson:"-"`
}

// CartMutation is the request body shared by the cart endpoints. Quantity
// is a pointer so an absent field is distinguishable from an explicit
// zero, like ProductUpdate does for partial product edits.
type CartMutation struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}
