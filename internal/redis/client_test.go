package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		client, err := NewClient(nil)
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("sets default pool size", func(t *testing.T) {
		mr := miniredis.RunT(t)
		config := &Config{Address: mr.Addr()}

		client, err := NewClient(config)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, 10, config.PoolSize)
	})

	t.Run("connection failure", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		client, err := NewClient(&Config{Address: addr})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
		assert.Nil(t, client)
	})
}

func TestClient_Health(t *testing.T) {
	client, mr := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestClient_KeyValue(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	t.Run("string value", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "k1", "v1", 0))
		got, err := client.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "v1", got)
	})

	t.Run("json value", func(t *testing.T) {
		type payload struct {
			Name  string `json:"name"`
			Level int    `json:"level"`
		}
		require.NoError(t, client.Set(ctx, "k2", payload{Name: "Notch", Level: 3}, time.Minute))

		var got payload
		require.NoError(t, client.GetJSON(ctx, "k2", &got))
		assert.Equal(t, payload{Name: "Notch", Level: 3}, got)

		assert.Equal(t, time.Minute, mr.TTL("k2"))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := client.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		var dest map[string]interface{}
		assert.ErrorIs(t, client.GetJSON(ctx, "missing", &dest), ErrNotFound)
	})

	t.Run("invalid json", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "k3", "{not json", 0))
		var dest map[string]interface{}
		err := client.GetJSON(ctx, "k3", &dest)
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("raw bytes", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "k4", []byte("raw"), 0))
		stored, err := mr.Get("k4")
		require.NoError(t, err)
		assert.Equal(t, "raw", stored)
		assert.Zero(t, mr.TTL("k4"))
	})

	t.Run("expiration", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "k5", "v", time.Second))
		mr.FastForward(2 * time.Second)
		_, err := client.Get(ctx, "k5")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClient_Concurrency(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("concurrent:%d", i)
			assert.NoError(t, client.Set(ctx, key, i, 0))
			_, err := client.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
