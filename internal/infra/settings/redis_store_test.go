package settings

import (
	"context"
	"testing"

	repo "storeadmin/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStore_Unset(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)

	_, err := s.GetShippingCost(context.Background())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestRedisStore_SetThenGet(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	ctx := context.Background()

	require.NoError(t, s.SetShippingCost(ctx, decimal.RequireFromString("750.50")))

	got, err := s.GetShippingCost(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("750.5").Equal(got))

	raw, err := mr.Get(shippingCostKey)
	require.NoError(t, err)
	assert.Equal(t, "750.5", raw)
}

func TestRedisStore_Unparsable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)

	require.NoError(t, mr.Set(shippingCostKey, "cheap"))

	_, err := s.GetShippingCost(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repo.ErrNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	mr.Close()

	_, err := s.GetShippingCost(context.Background())
	require.Error(t, err)
}
