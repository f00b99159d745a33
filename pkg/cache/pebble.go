package cache

import (
	"context"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"
)

// PebbleCache stores entries in an embedded Pebble database. It suits
// large caches (4K frame sets) where thousands of small files would be
// slow.
type PebbleCache struct {
	db  *pebble.DB
	now func() time.Time
}

// NewPebbleCache opens (or creates) a Pebble database in dir.
func NewPebbleCache(dir string) (*PebbleCache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleCache{db: db, now: time.Now}, nil
}

// Get retrieves a value from the cache.
func (c *PebbleCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, closer, err := c.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// raw is only valid until closer is closed.
	data, ok := decodeEntry(raw, c.now())
	closer.Close()
	if !ok {
		_ = c.db.Delete([]byte(key), pebble.NoSync)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a value in the cache.
func (c *PebbleCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	raw, err := encodeEntry(data, ttl, c.now())
	if err != nil {
		return err
	}
	return c.db.Set([]byte(key), raw, pebble.Sync)
}

// Delete removes a value from the cache.
func (c *PebbleCache) Delete(ctx context.Context, key string) error {
	return c.db.Delete([]byte(key), pebble.Sync)
}

// Clear deletes every key. Keys are printable, so [0x00, 0xff) covers them.
func (c *PebbleCache) Clear(ctx context.Context) error {
	return c.db.DeleteRange([]byte{0x00}, []byte{0xff}, pebble.Sync)
}

// Close flushes and closes the database.
func (c *PebbleCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*PebbleCache)(nil)
