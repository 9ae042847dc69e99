// Package storage persists journal records. Two backends are available: a
// SQLite database (the default) and a bbolt key/value file. Both keep the
// whole record, photo included, in a single local file.
package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/ssworld/pkg/config"
	"github.com/rubiojr/ssworld/pkg/core"
)

// Store is the record collection. List returns records newest first. Get
// and Delete return core.ErrNotFound for unknown IDs. Put inserts or
// replaces by ID.
type Store interface {
	List(ctx context.Context) ([]core.Record, error)
	Get(ctx context.Context, id string) (core.Record, error)
	Put(ctx context.Context, rec core.Record) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Optimizer is implemented by backends with periodic maintenance.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// Open creates the storage directory if needed and opens the backend
// named in cfg.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, cfg.DBPath())
	case config.BackendBolt:
		return OpenBolt(cfg.DBPath())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Stats summarizes a collection.
type Stats struct {
	Records    int
	ByCategory map[core.Category]int
	Oldest     string
	Newest     string
}

// Summarize computes Stats from a newest-first record list.
func Summarize(records []core.Record) Stats {
	s := Stats{Records: len(records), ByCategory: make(map[core.Category]int)}
	for _, r := range records {
		s.ByCategory[r.Category]++
	}
	if len(records) > 0 {
		s.Newest = records[0].CreatedAt
		s.Oldest = records[len(records)-1].CreatedAt
	}
	return s
}
