package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
)

func newTestCache(t *testing.T) (*cache.ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewReportCache(client, time.Minute), mr
}

func TestReportCache_FetchJSON_LeeDeCacheEnSegundaLlamada(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]int{"n": calls}, nil
	}

	key, err := c.BuildKey(ctx, "reports", "x")
	require.NoError(t, err)
	assert.Equal(t, "reports:x:v1", key)

	var first, second map[string]int
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	assert.Equal(t, 1, calls, "la segunda lectura debe salir de redis")
	assert.Equal(t, first, second)
}

func TestReportCache_BumpCambiaLaClave(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	k1, err := c.BuildKey(ctx, "reports", "x")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx))
	k2, err := c.BuildKey(ctx, "reports", "x")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestReportCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	var out []int
	require.NoError(t, c.FetchJSON(ctx, "reports:ttl", &out, func(context.Context) (any, error) { return []int{1}, nil }))
	assert.True(t, mr.Exists("reports:ttl"))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("reports:ttl"))
}

func TestReportCache_ErrorDelLoaderNoSeGuarda(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	var out []int
	err := c.FetchJSON(context.Background(), "reports:err", &out, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("reports:err"))
}

func TestReportCache_NilFuncionaSinRedis(t *testing.T) {
	var c *cache.ReportCache
	var out []int
	require.NoError(t, c.FetchJSON(context.Background(), "k", &out, func(context.Context) (any, error) { return []int{7}, nil }))
	assert.Equal(t, []int{7}, out)
	assert.NoError(t, c.Bump(context.Background()))
}
