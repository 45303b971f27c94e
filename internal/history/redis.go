package history

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps titles in a list at key, with a companion set at key+":set"
// so Append stays idempotent.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis uses an existing client.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis) setKey() string { return r.key + ":set" }

func (r *Redis) Load(ctx context.Context) ([]string, error) {
	titles, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

func (r *Redis) Append(ctx context.Context, title string) error {
	added, err := r.client.SAdd(ctx, r.setKey(), title).Result()
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if added == 0 {
		return nil
	}
	if err := r.client.RPush(ctx, r.key, title).Err(); err != nil {
		// keep the set consistent with the list
		_ = r.client.SRem(ctx, r.setKey(), title).Err()
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
