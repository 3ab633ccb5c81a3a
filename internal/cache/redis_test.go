package cache

import (
	"context"
	"testing"
	"time"

	"plan-marketplace/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func TestSetThenGet_KeepsPlanFiles(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	id := primitive.NewObjectID()
	product := &model.Product{
		ID:        id,
		Name:      "30x40 East Facing",
		Price:     1499,
		PlanFiles: []string{"https://cdn.example.com/plans/a.pdf"},
		Status:    model.StatusApproved,
	}

	require.NoError(t, c.Set(ctx, id.Hex(), product))
	assert.True(t, mr.Exists(cacheKey(id.Hex())))

	got, err := c.Get(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "30x40 East Facing", got.Name)
	assert.Equal(t, []string{"https://cdn.example.com/plans/a.pdf"}, got.PlanFiles)
}

func TestGet_CacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, err := c.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
}

func TestGet_CorruptValue(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("bad"), "not bson"))

	_, err := c.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_TTLWithinJitterWindow(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, c.Set(context.Background(), "p1", &model.Product{Name: "x"}))

	ttl := mr.TTL(cacheKey("p1"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.Less(t, ttl, 20*time.Minute)
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "p1", &model.Product{Name: "x"}))

	require.NoError(t, c.Delete(ctx, "p1"))
	assert.False(t, mr.Exists(cacheKey("p1")))

	// deleting a missing key is fine
	assert.NoError(t, c.Delete(ctx, "p1"))
}

func TestGet_RedisDown(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, err := c.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
