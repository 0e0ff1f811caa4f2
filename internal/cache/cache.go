package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values. A nil Cache is never passed around;
// callers that run without Redis get Noop.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error                      { return nil }
