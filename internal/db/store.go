package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding tags, views and the message cache
type Store struct {
	db *sql.DB
}

// Open opens (and creates/migrates) the database at the given path
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	// Ensure file exists with strict perms
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		f, err := os.OpenFile(dbPath, os.O_CREATE|os.O_RDWR, 0o600)
		if err != nil {
			return nil, fmt.Errorf("create database file: %w", err)
		}
		f.Close()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout=5000;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	// user_version based migrations
	var ver int
	_ = s.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&ver)

	// v1: registry, views and messages. List-valued columns hold JSON arrays.
	if ver == 0 {
		err := s.inTx(ctx, 1, `
CREATE TABLE IF NOT EXISTS tags (
  id                TEXT PRIMARY KEY,
  position          INTEGER NOT NULL,
  name              TEXT NOT NULL,
  instructions      TEXT NOT NULL DEFAULT '[]',
  examples          TEXT NOT NULL DEFAULT '[]',
  negative_examples TEXT NOT NULL DEFAULT '[]'
);`, `
CREATE TABLE IF NOT EXISTS views (
  id          TEXT PRIMARY KEY,
  position    INTEGER NOT NULL,
  name        TEXT NOT NULL,
  visible     BOOLEAN NOT NULL DEFAULT TRUE,
  icon        TEXT NOT NULL DEFAULT '',
  conditions  TEXT NOT NULL DEFAULT '[]'
);`, `
CREATE TABLE IF NOT EXISTS messages (
  id       TEXT PRIMARY KEY,
  sender   TEXT NOT NULL,
  subject  TEXT NOT NULL,
  preview  TEXT NOT NULL DEFAULT '',
  date     INTEGER NOT NULL,
  tags     TEXT NOT NULL DEFAULT '[]'
);`)
		if err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
		ver = 1
	}

	// v2: key/value settings (selected view, seed marker) and date index
	if ver == 1 {
		err := s.inTx(ctx, 2, `
CREATE TABLE IF NOT EXISTS settings (
  key    TEXT PRIMARY KEY,
  value  TEXT NOT NULL
);`, `CREATE INDEX IF NOT EXISTS idx_messages_date ON messages(date DESC);`)
		if err != nil {
			return fmt.Errorf("migrate v2: %w", err)
		}
		ver = 2
	}

	return nil
}

// inTx runs the statements and bumps user_version to version in one transaction
func (s *Store) inTx(ctx context.Context, version int, stmts ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version=%d;", version)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for use by domain stores
func (s *Store) DB() *sql.DB {
	return s.db
}
