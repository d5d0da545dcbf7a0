package auth

import (
	"context"
	"time"

	"agrimart/apperr"
	"agrimart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore persists accounts. FindByEmail returns NotFound for unknown
// emails so login can collapse "no user" and "wrong password" into one
// response.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Insert(ctx context.Context, u models.User) error
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (models.User, error)
	Farmers(ctx context.Context, ids []string) (map[string]models.Farmer, error)
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.StorageFailure, "Failed to look up user", err)
	}
	return u, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.StorageFailure, "Failed to look up user", err)
	}
	return u, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, u models.User) error {
	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.Conflict, "User already exists", err)
		}
		return apperr.Wrap(apperr.StorageFailure, "Failed to register user", err)
	}
	return nil
}

func (s *MongoUserStore) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.StorageFailure, "Failed to update profile", err)
	}
	if res.MatchedCount == 0 {
		return models.User{}, apperr.New(apperr.NotFound, "User not found")
	}
	return s.FindByID(ctx, id)
}

func (s *MongoUserStore) Farmers(ctx context.Context, ids []string) (map[string]models.Farmer, error) {
	out := make(map[string]models.Farmer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to fetch farmers", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "Failed to decode farmers", err)
	}

	for _, u := range users {
		out[u.ID] = models.Farmer{
			ID:       u.ID,
			Name:     u.Name,
			Location: u.Location,
			Image:    u.Image,
		}
	}
	return out, nil
}
