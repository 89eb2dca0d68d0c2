package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fyndrai/fyndr/internal/client/migrations"
	"github.com/fyndrai/fyndr/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the session in the session_storage table of the
// client's local database. Change events reach subscribers of this process.
type SQLiteStore struct {
	db *sql.DB
	n  *notifier
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, n: newNotifier()}
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the database at dsn, migrates it and
// returns a store over it. The store owns the connection.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// A single connection keeps :memory: databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite %s: %w", dsn, err)
	}
	return NewSQLiteStore(db), nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session_storage[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *SQLiteStore) SetMany(ctx context.Context, values map[string]string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO session_storage (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, k, v); err != nil {
				return fmt.Errorf("failed to set session_storage[%s]: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.n.publish(setEvents(values)...)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.DeleteMany(ctx, key)
}

func (s *SQLiteStore) DeleteMany(ctx context.Context, keys ...string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM session_storage WHERE key = ?`, k); err != nil {
				return fmt.Errorf("failed to delete session_storage[%s]: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.n.publish(deleteEvents(keys)...)
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_storage`); err != nil {
		return fmt.Errorf("failed to clear session_storage: %w", err)
	}
	s.n.publish(Event{Deleted: true})
	return nil
}

// List returns every stored pair. Used by diagnostics.
func (s *SQLiteStore) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session_storage`)
	if err != nil {
		return nil, fmt.Errorf("failed to list session_storage: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session_storage row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session_storage rows: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) Subscribe(ctx context.Context) (<-chan Event, error) {
	return s.n.subscribe(ctx), nil
}

func (s *SQLiteStore) Close() error {
	s.n.close()
	return s.db.Close()
}
