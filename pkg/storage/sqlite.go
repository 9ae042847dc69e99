package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/db"
	"github.com/rubiojr/ssworld/pkg/log"
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 30000",
	"PRAGMA cache_size = -64000",
	"PRAGMA temp_store = memory",
}

// SQLiteStore keeps records in one table, see pkg/db/migrations.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// OpenSQLite opens (or creates) the database at path and applies pending
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", p, err)
		}
	}

	if err := db.Initialize(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	l := log.ForService("storage")
	l.Debugf("opened sqlite store %s", path)
	return &SQLiteStore{db: sqlDB, path: path, logger: l}, nil
}

// DB exposes the connection for migration tooling.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const recordColumns = "id, photo, category, mood, animal_reply, created_at, updated_at"

func (s *SQLiteStore) List(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recordColumns+" FROM records ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	core.SortNewestFirst(records)
	return records, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (core.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, fmt.Errorf("record %s: %w", id, core.ErrNotFound)
	}
	return rec, err
}

func (s *SQLiteStore) Put(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Photo, string(rec.Category), rec.Mood, rec.Reaction, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("storing record %s: %w", rec.ID, err)
	}
	return nil
}

// PutAll stores records in a single transaction.
func (s *SQLiteStore) PutAll(ctx context.Context, records []core.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				s.logger.Warnf("rollback failed: %v", err)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Photo, string(rec.Category), rec.Mood, rec.Reaction, rec.CreatedAt, rec.UpdatedAt); err != nil {
			return fmt.Errorf("storing record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// Optimize runs SQLite's planner statistics and folds the WAL back into
// the main file.
func (s *SQLiteStore) Optimize(ctx context.Context) error {
	for _, stmt := range []string{"PRAGMA optimize", "PRAGMA wal_checkpoint(TRUNCATE)"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	s.logger.Debugf("optimized %s", s.path)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (core.Record, error) {
	var rec core.Record
	var category string
	err := row.Scan(&rec.ID, &rec.Photo, &category, &rec.Mood, &rec.Reaction, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning record: %w", err)
	}
	rec.Category = core.Category(category)
	return rec, nil
}
