package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/odark007/liq-store/models"
	"github.com/redis/go-redis/v9"
)

// Repository persists carts across sessions. Exactly one actor mutates a
// given session's cart, so there is no concurrent-write hazard to guard.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) key(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (r *RedisRepository) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		// No cart yet for this session
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c models.Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	if c.Pools == nil {
		c.Pools = map[string]int{}
	}
	return &c, nil
}

func (r *RedisRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(cart.SessionID), data, r.ttl).Err()
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
