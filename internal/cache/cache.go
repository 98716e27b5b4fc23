package cache

import (
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Cache is the content-addressed cache a session owns. It is best-effort:
// a failed write never fails the caller, only degrades to "not cached".
type Cache struct {
	storage *FileStorage
	group   singleflight.Group
	logger  *slog.Logger
}

// New returns a Cache backed by a JSON-file directory at dir.
func New(dir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{storage: NewFileStorage(dir, logger), logger: logger}
}

// Get looks up key and unmarshals its value into v. Returns false on miss.
func (c *Cache) Get(key string, v any) bool {
	ok, err := c.storage.Get(key, v)
	if err != nil {
		c.logger.Debug("cache: get failed", "key", key, "error", err)
		return false
	}
	return ok
}

// Set stores v under key. Write failures are logged and swallowed.
func (c *Cache) Set(key string, v any) {
	if err := c.storage.Set(key, v); err != nil {
		c.logger.Warn("cache: set failed, continuing without cache entry", "key", key, "error", err)
	}
}

// GetByContent looks up a value by ASLR-resistant content key.
func (c *Cache) GetByContent(content []byte, suffix string, v any) bool {
	return c.Get(ContentKey(content, suffix), v)
}

// SetByContent stores a value under an ASLR-resistant content key.
func (c *Cache) SetByContent(content []byte, suffix string, v any) {
	c.Set(ContentKey(content, suffix), v)
}

// Clear removes every cache entry.
func (c *Cache) Clear() error {
	return c.storage.Clear()
}

// ListKeys returns every key currently stored.
func (c *Cache) ListKeys() ([]string, error) {
	return c.storage.ListKeys()
}

// Coalesce collapses concurrent misses for the same key into one call to
// compute: if N callers race on a miss for key, compute runs once and all N
// receive its result. compute reports whether its result is cacheable
// (e.g. act() only caches a successful execution, never a failed one) —
// only a cacheable result is written through to storage before being
// returned.
func (c *Cache) Coalesce(key string, compute func() (value any, cacheable bool, err error)) (any, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		result, cacheable, err := compute()
		if err != nil {
			return nil, err
		}
		if cacheable {
			c.Set(key, result)
		}
		return result, nil
	})
	return v, err
}
