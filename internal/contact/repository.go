package contact

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository stores contact messages
type Repository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, p pagination.Params) ([]models.ContactMessage, int64, error)
	MarkAnswered(ctx context.Context, id primitive.ObjectID) (*models.ContactMessage, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepository struct {
	col *mongo.Collection
}

const ttlIndexName = "createdAt_ttl"

// NewMongoRepository ensures the TTL index that expires messages ttl after createdAt.
// An existing createdAt index with other options is dropped and rebuilt so a TTL change applies on restart.
func NewMongoRepository(ctx context.Context, col *mongo.Collection, ttl time.Duration) (*MongoRepository, error) {
	opts := options.Index().SetName(ttlIndexName)
	if ttl > 0 {
		opts.SetExpireAfterSeconds(ttlSeconds(ttl))
	}
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: opts}
	err := database.EnsureIndexes(ctx, col, idx)
	if isIndexConflict(err) {
		logger.Infof("contact TTL index changed, rebuilding %s", ttlIndexName)
		err = rebuildCreatedAtIndex(ctx, col, idx)
	}
	if err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

// ttlSeconds converts ttl for expireAfterSeconds, clamped to [1, MaxInt32].
func ttlSeconds(ttl time.Duration) int32 {
	secs := int64(ttl / time.Second)
	switch {
	case secs < 1:
		return 1
	case secs > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(secs)
}

// IndexOptionsConflict (85) and IndexKeySpecsConflict (86)
func isIndexConflict(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && (se.HasErrorCode(85) || se.HasErrorCode(86))
}

func rebuildCreatedAtIndex(ctx context.Context, col *mongo.Collection, idx mongo.IndexModel) error {
	cur, err := col.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes on %s: %w", col.Name(), err)
	}
	var specs []struct {
		Name string `bson:"name"`
		Key  bson.D `bson:"key"`
	}
	if err := cur.All(ctx, &specs); err != nil {
		return fmt.Errorf("list indexes on %s: %w", col.Name(), err)
	}
	for _, spec := range specs {
		if spec.Name == ttlIndexName || (len(spec.Key) == 1 && spec.Key[0].Key == "createdAt") {
			if _, err := col.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("drop index %s on %s: %w", spec.Name, col.Name(), err)
			}
		}
	}
	return database.EnsureIndexes(ctx, col, idx)
}

func (r *MongoRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MongoRepository) List(ctx context.Context, p pagination.Params) ([]models.ContactMessage, int64, error) {
	return database.FindPage[models.ContactMessage](ctx, r.col, bson.M{}, p.Skip(), int64(p.Limit))
}

func (r *MongoRepository) MarkAnswered(ctx context.Context, id primitive.ObjectID) (*models.ContactMessage, error) {
	return database.UpdateByID[models.ContactMessage](ctx, r.col, id, bson.M{"$set": bson.M{"answered": true}})
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return database.DeleteByID(ctx, r.col, id)
}
