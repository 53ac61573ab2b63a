package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connection refused")
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(16, time.Hour)
	require.NoError(t, store.Set(ctx, "auth_good-token", "64b7f0c2a1b2c3d4e5f60718", time.Hour))
	require.NoError(t, store.Set(ctx, "auth_empty-token", "", time.Hour))
	resolver := NewResolver(store)

	userID, err := resolver.Resolve(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", userID)

	for _, token := range []string{"", "   ", "unknown-token", "empty-token", "auth_good-token"} {
		_, err := resolver.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized, "token %q", token)
	}
}

func TestResolver_StoreFailureIsNotUnauthorized(t *testing.T) {
	_, err := NewResolver(failingStore{}).Resolve(context.Background(), "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolver_Issue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(16, time.Hour)
	resolver := NewResolver(store)

	require.NoError(t, resolver.Issue(ctx, "tok", "user-1", time.Minute))
	raw, err := store.Get(ctx, "auth_tok")
	require.NoError(t, err)
	assert.Equal(t, "user-1", raw)

	assert.Error(t, resolver.Issue(ctx, " ", "user-1", time.Minute))
}

func TestMemoryStore_EntryExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(16, time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "auth_short", "user-1", time.Minute))
	_, err := store.Get(ctx, "auth_short")
	require.NoError(t, err)

	// Reading does not extend the lifetime.
	now = now.Add(59 * time.Second)
	_, err = store.Get(ctx, "auth_short")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = store.Get(ctx, "auth_short")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore(t *testing.T) {
	connString := os.Getenv("REDIS_CONN_STRING")
	if connString == "" {
		t.Skip("REDIS_CONN_STRING not set, skipping test")
	}
	opt, err := redis.ParseURL(connString)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	resolver := NewResolver(NewRedisStore(client))
	token := "file-vault-test-" + time.Now().Format("150405.000000")
	defer client.Del(ctx, Key(token))

	_, err = resolver.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, resolver.Issue(ctx, token, "user-1", time.Minute))
	userID, err := resolver.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	ttl, err := client.TTL(ctx, Key(token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
