package repository

import (
	"context"
	"errors"

	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/pages"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores pages in the "pagecontents" collection, unique on pageId.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "pageId", Value: 1}}, Options: options.Index().SetUnique(true)}
	if err := database.EnsureIndexes(ctx, col, idx); err != nil {
		return nil, err
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Get(ctx context.Context, pageID string) (*pages.Page, error) {
	var p pages.Page
	if err := m.col.FindOne(ctx, bson.M{"pageId": pageID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*pages.Page, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "pageId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*pages.Page{}
	for cur.Next(ctx) {
		var p pages.Page
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Insert(ctx context.Context, p *pages.Page) error {
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExists
		}
		return err
	}
	return nil
}

func (m *MongoRepo) Save(ctx context.Context, p *pages.Page) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"pageId": p.PageID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
