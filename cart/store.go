package cart

import (
	"context"
	"time"

	"agrimart/apperr"
	"agrimart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store holds cart rows keyed by (userId, productId). AddQuantity must be
// atomic at the storage layer — two racing adds for the same key both land.
type Store interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	AddQuantity(ctx context.Context, userID, productID string, qty int) error
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	Delete(ctx context.Context, userID, productID string) error
	DeleteAll(ctx context.Context, userID string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Could not retrieve cart", err)
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Error reading cart data", err)
	}
	if len(items) == 0 {
		items = []models.CartItem{}
	}
	return items, nil
}

// AddQuantity upserts with $inc so the increment happens inside the
// storage engine — no read-modify-write window.
func (s *MongoStore) AddQuantity(ctx context.Context, userID, productID string, qty int) error {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{
		"$inc":         bson.M{"quantity": qty},
		"$setOnInsert": bson.M{"addedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := s.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return apperr.Wrap(apperr.StorageFailure, "Failed to add to cart", err)
	}
	return nil
}

// SetQuantity overwrites the row's quantity exactly, creating it if absent.
func (s *MongoStore) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{
		"$set":         bson.M{"quantity": qty},
		"$setOnInsert": bson.M{"addedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := s.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return apperr.Wrap(apperr.StorageFailure, "Failed to update cart", err)
	}
	return nil
}

// Delete is idempotent: removing an absent row is not an error.
func (s *MongoStore) Delete(ctx context.Context, userID, productID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID, "productId": productID}); err != nil {
		return apperr.Wrap(apperr.StorageFailure, "Failed to remove from cart", err)
	}
	return nil
}

func (s *MongoStore) DeleteAll(ctx context.Context, userID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return apperr.Wrap(apperr.StorageFailure, "Failed to clear cart", err)
	}
	return nil
}
