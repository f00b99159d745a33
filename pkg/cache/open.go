package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Options selects and configures a backend.
type Options struct {
	Backend   string // file, pebble, redis or none
	Dir       string // root directory for file and pebble backends
	RedisURL  string
	Namespace string // optional key prefix, see [WithPrefix]
}

// Open creates the cache described by o together with the keyer to use
// with it. An empty backend selects the file cache.
func Open(ctx context.Context, o Options) (Cache, Keyer, error) {
	keyer := NewDefaultKeyer()
	if o.Namespace != "" {
		keyer = WithPrefix(keyer, o.Namespace+":")
	}

	switch o.Backend {
	case "", BackendFile:
		c, err := NewFileCache(filepath.Join(o.Dir, "entries"))
		if err != nil {
			return nil, nil, fmt.Errorf("file cache: %w", err)
		}
		return c, keyer, nil
	case BackendPebble:
		c, err := NewPebbleCache(filepath.Join(o.Dir, "pebble"))
		if err != nil {
			return nil, nil, fmt.Errorf("pebble cache: %w", err)
		}
		return c, keyer, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, o.RedisURL, "")
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, keyer, nil
	case BackendNone:
		return NewNullCache(), keyer, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.Backend)
	}
}
