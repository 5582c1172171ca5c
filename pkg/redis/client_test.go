package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, prefix string) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	opts := DefaultOptions()
	opts.Addr = mr.Addr()
	opts.Prefix = prefix
	c, err := Open(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// TestClient_Prefix проверяет, что ключи пишутся под префиксом и читаются без него
func TestClient_Prefix(t *testing.T) {
	c, mr := open(t, "techhub:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "theme", []byte("dark"), 0))
	require.NoError(t, c.Set(ctx, "auth_token", []byte("tok"), time.Hour))
	require.NoError(t, mr.Set("other:theme", "light"))

	assert.True(t, mr.Exists("techhub:theme"))
	assert.Equal(t, time.Hour, mr.TTL("techhub:auth_token"))

	v, found, err := c.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("dark"), v)

	names, err := c.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth_token", "theme"}, names)

	require.NoError(t, c.Del(ctx, "theme", "missing"))
	require.NoError(t, c.Del(ctx))
	_, found, err = c.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, mr.Exists("other:theme"))
}

// TestOpen_Unreachable проверяет ошибку, если сервер не отвечает
func TestOpen_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := DefaultOptions()
	opts.Addr = "127.0.0.1:1"
	opts.MaxRetries = -1

	_, err := Open(ctx, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

// TestClient_EmptyPrefix проверяет работу без префикса
func TestClient_EmptyPrefix(t *testing.T) {
	c, mr := open(t, "")
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("k"))
	assert.Equal(t, "k", c.Key("k"))
}
