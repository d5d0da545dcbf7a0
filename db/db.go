package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dbName = "agrimart"

// Collections bundles the handles the services need. It is built once in
// main and passed down explicitly — handlers never reach for package
// globals.
type Collections struct {
	Users    *mongo.Collection
	Products *mongo.Collection
	Cart     *mongo.Collection
	Orders   *mongo.Collection
}

func Connect(ctx context.Context) (*mongo.Client, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func New(client *mongo.Client) *Collections {
	d := client.Database(dbName)
	return &Collections{
		Users:    d.Collection("users"),
		Products: d.Collection("products"),
		Cart:     d.Collection("cart"),
		Orders:   d.Collection("orders"),
	}
}

// EnsureIndexes creates the unique keys the data model relies on:
// one account per email, at most one cart row per (user, product).
func EnsureIndexes(ctx context.Context, c *Collections) error {
	_, err := c.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = c.Cart.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = c.Products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "farmerId", Value: 1}},
	})
	return err
}
