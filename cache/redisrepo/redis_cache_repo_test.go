package rediscacherepo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sounak286/RAKSHA-SATHI/cache"
	rediscacherepo "github.com/sounak286/RAKSHA-SATHI/cache/redisrepo"
	"github.com/stretchr/testify/require"
)

// setupTestFixture connects to the Redis server named by REDIS_TEST_ADDR.
func setupTestFixture(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCacheRepo(t *testing.T) {
	client := setupTestFixture(t)
	ctx := context.Background()
	repo := rediscacherepo.New(client, rediscacherepo.WithHistory(2))
	key := "test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), "cctns_cache:"+key) })

	_, err := repo.Latest(ctx, key)
	require.ErrorIs(t, err, cache.ErrEntryNotFound)

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, payload := range []string{`{"v":1}`, `{"v":2}`, "{ \"v\" : 3 }"} {
		require.NoError(t, repo.Write(ctx, key, []byte(payload), base.Add(time.Duration(i)*time.Minute)))
	}

	e, err := repo.Latest(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "{ \"v\" : 3 }", string(e.Payload))
	require.True(t, base.Add(2*time.Minute).Equal(e.CachedAt))

	n, err := client.LLen(ctx, "cctns_cache:"+key).Result()
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
