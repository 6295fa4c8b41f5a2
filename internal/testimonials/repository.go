package testimonials

import (
	"context"

	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository stores testimonials. An empty status in List means every status.
type Repository interface {
	Create(ctx context.Context, t *models.Testimonial) error
	List(ctx context.Context, status models.TestimonialStatus, p pagination.Params) ([]models.Testimonial, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TestimonialStatus) (*models.Testimonial, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}}
	if err := database.EnsureIndexes(ctx, col, idx); err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

func (r *MongoRepository) Create(ctx context.Context, t *models.Testimonial) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *MongoRepository) List(ctx context.Context, status models.TestimonialStatus, p pagination.Params) ([]models.Testimonial, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return database.FindPage[models.Testimonial](ctx, r.col, filter, p.Skip(), int64(p.Limit))
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TestimonialStatus) (*models.Testimonial, error) {
	return database.UpdateByID[models.Testimonial](ctx, r.col, id, bson.M{"$set": bson.M{"status": status}})
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return database.DeleteByID(ctx, r.col, id)
}
