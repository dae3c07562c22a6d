package wdqs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Cache stores query responses keyed by the SHA-256 of the query text.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenCache opens a cache in dir. An empty dir keeps the cache in memory. A
// non-positive ttl keeps entries forever.
func OpenCache(dir string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open query cache: %w", err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

func cacheKey(sparql string) []byte {
	sum := sha256.Sum256([]byte(sparql))
	return append([]byte("wdqs/"), sum[:]...)
}

// Get returns the cached response for sparql.
func (c *Cache) Get(sparql string) ([]byte, bool, error) {
	var body []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(sparql))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read query cache: %w", err)
	}
	return body, true, nil
}

// Put stores body as the response for sparql.
func (c *Cache) Put(sparql string, body []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(cacheKey(sparql), body)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to write query cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// CachedQuerier answers from the cache when it can and fills it otherwise.
type CachedQuerier struct {
	querier Querier
	cache   *Cache
	logger  *slog.Logger
}

// NewCachedQuerier wraps q with cache.
func NewCachedQuerier(q Querier, cache *Cache, logger *slog.Logger) *CachedQuerier {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedQuerier{querier: q, cache: cache, logger: logger}
}

// Query implements Querier. Cache failures are logged and do not fail the query.
func (c *CachedQuerier) Query(ctx context.Context, name, sparql string) ([]byte, error) {
	body, ok, err := c.cache.Get(sparql)
	if err != nil {
		c.logger.Warn("Query cache read failed", "name", name, "error", err)
	}
	if ok {
		c.logger.Info("Query served from cache", "name", name, "bytes", len(body))
		return body, nil
	}

	body, err = c.querier.Query(ctx, name, sparql)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(sparql, body); err != nil {
		c.logger.Warn("Query cache write failed", "name", name, "error", err)
	}
	return body, nil
}
