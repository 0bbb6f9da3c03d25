package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prime-slot-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Update watches keys, runs fn against the watched snapshot and commits the
// buffered writes in one MULTI/EXEC. A write to a watched key by anyone else
// aborts the commit with ErrConflict.
func (s *RedisStore) Update(ctx context.Context, keys []string, fn func(Tx) error) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		tx := newBufferedTx(func(key string) ([]byte, bool, error) {
			data, err := rtx.Get(ctx, key).Bytes()
			if err == redis.Nil {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			return data, true, nil
		}, false)

		if err := fn(tx); err != nil {
			return err
		}
		if len(tx.order) == 0 {
			return nil
		}

		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, key := range tx.order {
				pipe.Set(ctx, key, tx.writes[key], 0)
			}
			return nil
		})
		return err
	}, keys...)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

// View reads keys with a single MGET so fn sees one point in time.
func (s *RedisStore) View(ctx context.Context, keys []string, fn func(Tx) error) error {
	snapshot := make(map[string][]byte, len(keys))
	if len(keys) > 0 {
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		for i, v := range values {
			if str, ok := v.(string); ok {
				snapshot[keys[i]] = []byte(str)
			}
		}
	}

	return fn(newBufferedTx(func(key string) ([]byte, bool, error) {
		if data, ok := snapshot[key]; ok {
			return data, true, nil
		}
		data, err := s.client.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}, true))
}

// CheckRateLimit counts action for subject in a fixed window.
func (s *RedisStore) CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, subject, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisStore) ClearRateLimit(ctx context.Context, subject, action string) error {
	key := fmt.Sprintf(KeyRateLimit, subject, action)
	return s.client.Del(ctx, key).Err()
}
