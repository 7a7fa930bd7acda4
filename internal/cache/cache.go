package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// CacheInterface is implemented by the in-process and Redis caches.
type CacheInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key builders shared by the services that read and invalidate them.
func AdminProjectsKey(email string) string { return "admin_projects:" + email }
func TeamKey(code string) string           { return "team:" + code }

// GetJSON decodes a cached value into out.
func GetJSON(ctx context.Context, c CacheInterface, key string, out any) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// SetJSON encodes value and caches it.
func SetJSON(ctx context.Context, c CacheInterface, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), ttl)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error)              { return "", ErrMiss }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
