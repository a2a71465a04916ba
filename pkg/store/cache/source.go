package cache

import (
	"context"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const defaultSize = 64

// Fetcher is anything that yields raw records.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// Cache memoizes fetched rows per key for a fixed TTL. Failed fetches are not
// cached; concurrent misses on one key share a single fetch.
type Cache struct {
	entries *expirable.LRU[string, []domain.RawRecord]
	group   singleflight.Group
}

func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultSize
	}
	return &Cache{
		entries: expirable.NewLRU[string, []domain.RawRecord](size, nil, ttl),
	}
}

// Wrap returns a fetcher that serves inner through the cache under key.
func (c *Cache) Wrap(key string, inner Fetcher) *Source {
	return &Source{cache: c, key: key, inner: inner}
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}

type Source struct {
	cache *Cache
	key   string
	inner Fetcher
}

func (s *Source) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	if records, ok := s.cache.entries.Get(s.key); ok {
		zerolog.Ctx(ctx).Debug().Str("key", s.key).Msg("row cache hit")
		return records, nil
	}

	v, err, _ := s.cache.group.Do(s.key, func() (interface{}, error) {
		// every waiter on key shares this fetch
		records, err := s.inner.Fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.cache.entries.Add(s.key, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.RawRecord), nil
}
