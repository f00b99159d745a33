// Package history records one entry per scene render so that past runs can
// be listed, compared and plotted.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one render run.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	Scene     string        `json:"scene" bson:"scene"`
	Quality   string        `json:"quality" bson:"quality"`
	Format    string        `json:"format" bson:"format"`
	Values    []float64     `json:"values,omitempty" bson:"values,omitempty"`
	Started   time.Time     `json:"started" bson:"started"`
	Duration  time.Duration `json:"duration" bson:"duration"`
	Frames    int           `json:"frames,omitempty" bson:"frames,omitempty"`
	Output    string        `json:"output,omitempty" bson:"output,omitempty"`
	CacheHit  bool          `json:"cache_hit,omitempty" bson:"cache_hit,omitempty"`
	Error     string        `json:"error,omitempty" bson:"error,omitempty"`
	ErrorCode string        `json:"error_code,omitempty" bson:"error_code,omitempty"`
}

// OK reports whether the run succeeded.
func (r Record) OK() bool { return r.Error == "" }

// NewRecord starts a record for scene with a fresh run id.
func NewRecord(scene, quality, format string, values []float64, started time.Time) Record {
	return Record{
		ID:      uuid.NewString(),
		Scene:   scene,
		Quality: quality,
		Format:  format,
		Values:  values,
		Started: started.UTC(),
	}
}

// Store persists run records.
type Store interface {
	// Add appends a record.
	Add(ctx context.Context, r Record) error
	// List returns up to limit records, newest first. A limit of zero
	// returns all records.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// NullStore discards records.
type NullStore struct{}

// Add does nothing.
func (NullStore) Add(context.Context, Record) error { return nil }

// List returns no records.
func (NullStore) List(context.Context, int) ([]Record, error) { return nil, nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

// Options selects and configures a store for [Open].
type Options struct {
	Backend    string // file, mongo or none
	Path       string // JSON lines file for the file backend
	MongoURI   string
	Database   string
	Collection string
}

// Open creates the store described by o. An empty backend selects the
// file store.
func Open(ctx context.Context, o Options) (Store, error) {
	switch o.Backend {
	case "", "file":
		return NewFileStore(o.Path), nil
	case "mongo":
		s, err := NewMongoStore(ctx, o.MongoURI, o.Database, o.Collection)
		if err != nil {
			return nil, fmt.Errorf("mongo history: %w", err)
		}
		return s, nil
	case "none":
		return NullStore{}, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", o.Backend)
	}
}
