package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps each property as a JSON string under <prefix>:property:<id>
// and indexes ids in the sorted set <prefix>:properties scored by creation time.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, logger *zap.Logger, addr string, db int, prefix string) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info("connected to redis property store",
		zap.String("op", "property.NewRedisStore"),
		zap.String("addr", addr),
		zap.Int("db", db),
	)
	return &RedisStore{client: client, prefix: prefix, logger: logger}, nil
}

func (r *RedisStore) key(id string) string {
	return r.prefix + ":property:" + id
}

func (r *RedisStore) indexKey() string {
	return r.prefix + ":properties"
}

func (r *RedisStore) Create(ctx context.Context, p Property) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode property: %w", err)
	}

	// The record and its index entry are written in one MULTI/EXEC. ZAddNX
	// leaves the score of an existing id alone when SetNX finds it taken.
	score := float64(p.CreatedAt.UnixMilli())
	pipe := r.client.TxPipeline()
	set := pipe.SetNX(ctx, r.key(p.ID), data, 0)
	pipe.ZAddNX(ctx, r.indexKey(), redis.Z{Score: score, Member: p.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store property: %w", err)
	}
	if !set.Val() {
		return fmt.Errorf("property %s already exists", p.ID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (Property, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Property{}, ErrNotFound
	}
	if err != nil {
		return Property{}, fmt.Errorf("failed to load property %s: %w", id, err)
	}

	var p Property
	if err := json.Unmarshal(data, &p); err != nil {
		return Property{}, fmt.Errorf("failed to decode property %s: %w", id, err)
	}
	return p, nil
}

func (r *RedisStore) List(ctx context.Context) ([]Property, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	if len(ids) == 0 {
		return []Property{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}

	out := make([]Property, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Index entry without a record; skip it.
			r.logger.Warn("dangling property index entry",
				zap.String("op", "property.RedisStore.List"),
				zap.String("id", ids[i]),
			)
			continue
		}
		var p Property
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("failed to decode property %s: %w", ids[i], err)
		}
		out = append(out, p)
	}

	sortNewestFirst(out)
	return out, nil
}

func (r *RedisStore) Update(ctx context.Context, p Property) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode property: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.key(p.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.ZRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
