//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestRedisStore(t *testing.T) {
	url := startRedis(t)

	runStoreContract(t, func(t *testing.T) Store {
		s, err := OpenRedis(context.Background(), url, "test-"+uuid.NewString())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestRedisStore_CrossProcessLogout(t *testing.T) {
	url := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	profile := "shared-" + uuid.NewString()

	first, err := OpenRedis(ctx, url, profile)
	require.NoError(t, err)
	defer first.Close()
	second, err := OpenRedis(ctx, url, profile)
	require.NoError(t, err)
	defer second.Close()

	events, err := second.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, first.SetMany(ctx, map[string]string{KeyAccessToken: "access-token-1"}))
	v, ok, err := second.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "access-token-1", v)

	require.NoError(t, first.DeleteMany(ctx, SessionKeys...))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case e := <-events:
			if e.Key == KeyAccessToken && e.Deleted {
				return
			}
		case <-deadline:
			t.Fatal("logout never observed by the second process")
		}
	}
}
