package appointments

import (
	"context"

	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository stores appointment requests. An empty status in List means every status.
type Repository interface {
	Create(ctx context.Context, a *models.Appointment) error
	List(ctx context.Context, status models.AppointmentStatus, p pagination.Params) ([]models.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus) (*models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}
	if err := database.EnsureIndexes(ctx, col, idx...); err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *MongoRepository) List(ctx context.Context, status models.AppointmentStatus, p pagination.Params) ([]models.Appointment, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return database.FindPage[models.Appointment](ctx, r.col, filter, p.Skip(), int64(p.Limit))
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus) (*models.Appointment, error) {
	return database.UpdateByID[models.Appointment](ctx, r.col, id, bson.M{"$set": bson.M{"status": status}})
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return database.DeleteByID(ctx, r.col, id)
}
