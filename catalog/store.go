package catalog

import (
	"context"
	"regexp"
	"time"

	"agrimart/apperr"
	"agrimart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persisted product catalog. Implementations must report
// NotFound distinctly from other storage failures so handlers can render
// 404 vs 500.
type Store interface {
	List(ctx context.Context, page, limit int, search string) ([]models.Product, int64, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	GetMany(ctx context.Context, ids []string) ([]models.Product, error)
	Insert(ctx context.Context, p models.Product) error
	Update(ctx context.Context, id string, upd models.ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

// FarmerDirectory resolves farmer ids to their display info for embedding
// in product and cart responses.
type FarmerDirectory interface {
	Farmers(ctx context.Context, ids []string) (map[string]models.Farmer, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	// Substring match, not a user-supplied regex.
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"name": bson.M{"$regex": re}},
		{"description": bson.M{"$regex": re}},
	}}
}

func (s *MongoStore) List(ctx context.Context, page, limit int, search string) ([]models.Product, int64, error) {
	filter := searchFilter(search)
	skip := int64((page - 1) * limit)

	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.StorageFailure, "Failed to fetch products", err)
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, apperr.Wrap(apperr.StorageFailure, "Failed to decode products", err)
	}
	if len(items) == 0 {
		items = []models.Product{}
	}

	// Count under the same predicate so pagination math stays consistent.
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.StorageFailure, "Failed to count products", err)
	}

	return items, total, nil
}

func (s *MongoStore) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"farmerId": farmerID})
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to fetch products", err)
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to decode products", err)
	}
	if len(items) == 0 {
		items = []models.Product{}
	}
	return items, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return models.Product{}, apperr.Wrap(apperr.StorageFailure, "Failed to fetch product", err)
	}
	return p, nil
}

func (s *MongoStore) GetMany(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to fetch products", err)
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to decode products", err)
	}
	return items, nil
}

func (s *MongoStore) Insert(ctx context.Context, p models.Product) error {
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.Conflict, "Product already exists", err)
		}
		return apperr.Wrap(apperr.StorageFailure, "Failed to create product", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, upd models.ProductUpdate) (models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Unit != nil {
		set["unit"] = *upd.Unit
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Organic != nil {
		set["organic"] = *upd.Organic
	}
	if upd.InStock != nil {
		set["inStock"] = *upd.InStock
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return models.Product{}, apperr.Wrap(apperr.StorageFailure, "Failed to update product", err)
	}
	return p, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "Failed to delete product", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	return nil
}
