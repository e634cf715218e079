package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/climatewatch/internal/testutil"
)

func TestRedisCacheRepo_Set_Get_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		key := "test:key:1"
		value := []byte("test value")
		ttl := 5 * time.Minute

		err := repo.Set(ctx, key, value, ttl)
		require.NoError(t, err)

		result, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, result)

		actualTTL := client.TTL(ctx, key).Val()
		assert.True(t, actualTTL > 0 && actualTTL <= ttl)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		result, err := repo.Get(ctx, "non:existent:key")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("delete existing key", func(t *testing.T) {
		key := "test:key:2"
		require.NoError(t, repo.Set(ctx, key, []byte("to be deleted"), time.Minute))

		deleted, err := repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		err := repo.Set(ctx, "", []byte("x"), time.Minute)
		assert.Error(t, err)
		_, err = repo.Get(ctx, "")
		assert.Error(t, err)
	})
}

func TestRedisCacheRepo_SetIfNotExists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	ok, err := repo.SetIfNotExists(ctx, "test:lock:1", []byte("a"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetIfNotExists(ctx, "test:lock:1", []byte("b"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// First writer's value wins.
	v, err := repo.Get(ctx, "test:lock:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), v)
}
