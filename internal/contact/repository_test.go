package contact

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/database"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestTTLSeconds(t *testing.T) {
	require.Equal(t, int32(365*24*3600), ttlSeconds(365*24*time.Hour))
	require.Equal(t, int32(1), ttlSeconds(time.Millisecond))
	require.Equal(t, int32(math.MaxInt32), ttlSeconds(200*365*24*time.Hour))
}

func TestIsIndexConflict(t *testing.T) {
	wrapped := fmt.Errorf("create indexes on contactmessages: %w", mongo.CommandError{Code: 85, Name: "IndexOptionsConflict"})
	require.True(t, isIndexConflict(wrapped))
	require.True(t, isIndexConflict(mongo.CommandError{Code: 86}))
	require.False(t, isIndexConflict(mongo.CommandError{Code: 11000}))
	require.False(t, isIndexConflict(errors.New("boom")))
	require.False(t, isIndexConflict(nil))
}

func TestNewMongoRepository_TTLChange(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri, 5*time.Second)
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	col := client.Database("sophro_test").Collection(fmt.Sprintf("contact_ttl_%d", time.Now().UnixNano()))
	defer col.Drop(ctx)

	// index left by an earlier deploy under the default name
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}})
	require.NoError(t, err)

	_, err = NewMongoRepository(ctx, col, 365*24*time.Hour)
	require.NoError(t, err)
	_, err = NewMongoRepository(ctx, col, 30*24*time.Hour)
	require.NoError(t, err)

	cur, err := col.Indexes().List(ctx)
	require.NoError(t, err)
	var specs []bson.M
	require.NoError(t, cur.All(ctx, &specs))
	var found bson.M
	for _, s := range specs {
		require.NotEqual(t, "createdAt_-1", s["name"])
		if s["name"] == ttlIndexName {
			found = s
		}
	}
	require.NotNil(t, found)
	require.EqualValues(t, 30*24*3600, found["expireAfterSeconds"])
}
