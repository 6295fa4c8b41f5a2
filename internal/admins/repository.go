package admins

import (
	"context"
	"errors"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrEmailTaken = errors.New("admin email already exists")

// Repository defines persistence operations for admin accounts
type Repository interface {
	Create(ctx context.Context, a *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	// RecordLogin sets lastLogin and increments loginCount atomically.
	RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
}

// MongoRepository implements Repository using the "admins" collection
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a repository for the given collection and makes sure
// the unique email index exists.
func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}
	if err := database.EnsureIndexes(ctx, col, idx); err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Admin) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var a models.Admin
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	upd := bson.M{"$set": bson.M{"lastLogin": at}, "$inc": bson.M{"loginCount": 1}}
	return r.update(ctx, id, upd)
}

func (r *MongoRepository) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"passwordHash": hash}})
}

func (r *MongoRepository) update(ctx context.Context, id primitive.ObjectID, upd bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, upd)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
