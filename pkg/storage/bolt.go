package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/log"
)

var recordsBucket = []byte("records")

// BoltStore keeps each record as JSON under its ID.
type BoltStore struct {
	db     *bolt.DB
	logger *log.Logger
}

// OpenBolt opens (or creates) the bbolt file at path.
func OpenBolt(path string) (*BoltStore, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("creating records bucket: %w", err)
	}

	l := log.ForService("storage")
	l.Debugf("opened bolt store %s", path)
	return &BoltStore{db: bdb, logger: l}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) List(ctx context.Context) ([]core.Record, error) {
	var records []core.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec core.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				s.logger.Warnf("skipping malformed record %s: %v", k, err)
				return nil
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	core.SortNewestFirst(records)
	return records, nil
}

func (s *BoltStore) Get(ctx context.Context, id string) (core.Record, error) {
	var rec core.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(recordsBucket).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("record %s: %w", id, core.ErrNotFound)
		}
		return json.Unmarshal(v, &rec)
	})
	return rec, err
}

func (s *BoltStore) Put(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	enc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.ID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).Put([]byte(rec.ID), enc)
	})
}

func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("record %s: %w", id, core.ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
}
