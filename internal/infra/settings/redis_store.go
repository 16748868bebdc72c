package settings

import (
	"context"
	"errors"
	"fmt"

	repo "storeadmin/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const shippingCostKey = "settings:shipping_cost"

// RedisStore keeps settings as plain decimal strings under fixed keys.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetShippingCost(ctx context.Context) (decimal.Decimal, error) {
	val, err := s.rdb.Get(ctx, shippingCostKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return decimal.Zero, repo.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get shipping cost: %w", err)
	}

	d, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid shipping cost %q: %w", val, err)
	}
	return d, nil
}

func (s *RedisStore) SetShippingCost(ctx context.Context, value decimal.Decimal) error {
	//期限なし
	if err := s.rdb.Set(ctx, shippingCostKey, value.String(), 0).Err(); err != nil {
		return fmt.Errorf("failed to set shipping cost: %w", err)
	}
	return nil
}
