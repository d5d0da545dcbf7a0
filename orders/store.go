package orders

import (
	"context"

	"agrimart/apperr"
	"agrimart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Insert(ctx context.Context, o models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	Get(ctx context.Context, orderID string) (models.Order, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, o models.Order) error {
	if _, err := s.coll.InsertOne(ctx, o); err != nil {
		return apperr.Wrap(apperr.StorageFailure, "Order creation failed", err)
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to fetch orders", err)
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to decode orders", err)
	}
	if len(out) == 0 {
		out = []models.Order{}
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, orderID string) (models.Order, error) {
	var o models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": orderID}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, apperr.New(apperr.NotFound, "Order not found")
	}
	if err != nil {
		return models.Order{}, apperr.Wrap(apperr.StorageFailure, "Failed to fetch order", err)
	}
	return o, nil
}
