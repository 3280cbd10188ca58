package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore keeps each record as a JSON value in the kv table.
type SQLiteStore struct {
	records
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	s := &SQLiteStore{db: db}
	s.records = records{kv: sqliteKV{db: db}}
	return s
}

// OpenSQLiteStore opens the database at path, migrates it and wraps it in a store.
// The returned cleanup closes the database.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, func() error, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return NewSQLiteStore(db), db.Close, nil
}

// SaveSnapshot writes all four keys inside one transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	values, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, key := range AllKeys {
			if err := upsert(ctx, tx, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, ex execer, key string, value []byte) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("kv upsert %s: %w", key, err)
	}
	return nil
}

type sqliteKV struct {
	db *sql.DB
}

func (k sqliteKV) get(ctx context.Context, key string) ([]byte, bool, error) {
	row := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return []byte(v), true, nil
}

func (k sqliteKV) put(ctx context.Context, key string, value []byte) error {
	return upsert(ctx, k.db, key, value)
}
