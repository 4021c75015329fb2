// Package cache is the TTL'd page cache backing list reads. It is an
// in-process expirable LRU; a production deployment can swap in anything
// that honors the reelist.Cache contract.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jharlow/reelist/internal/reelist"
)

var _ reelist.Cache = (*Cache)(nil)

type Cache struct {
	lru       *expirable.LRU[string, []byte]
	namespace string
}

// New builds a cache of at most size entries, each living for ttl. The
// namespace must match the one the service derives keys with, since the
// per-user sweep matches on it.
func New(size int, ttl time.Duration, namespace string) *Cache {
	return &Cache{
		lru:       expirable.NewLRU[string, []byte](size, nil, ttl),
		namespace: namespace,
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.lru.Get(key)
	if !ok {
		return nil, reelist.ErrCacheMiss
	}

	return value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.lru.Add(key, value)
	return nil
}

// InvalidateUser drops every cached page belonging to the user. Zero
// matches is fine; the sweep is over live keys only.
func (c *Cache) InvalidateUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := reelist.UserKeyPrefix(c.namespace, userID)
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}

	return nil
}
