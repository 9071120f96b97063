package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Setting keys
const (
	SettingSelectedView = "selected_view"
	SettingSeeded       = "seeded"
	SettingUndoAction   = "undo_action"
)

// SettingsStore keeps small key/value state between runs
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a new settings store from a base store
func NewSettingsStore(store *Store) *SettingsStore {
	if store == nil {
		return nil
	}
	return &SettingsStore{db: store.DB()}
}

// Get returns a setting value if present
func (ss *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	if ss == nil || ss.db == nil {
		return "", false, fmt.Errorf("settings store not initialized")
	}
	var out string
	err := ss.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=?`, key).Scan(&out)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// Set upserts a setting value
func (ss *SettingsStore) Set(ctx context.Context, key, value string) error {
	if ss == nil || ss.db == nil {
		return fmt.Errorf("settings store not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty setting key")
	}
	_, err := ss.db.ExecContext(ctx, `INSERT INTO settings(key, value) VALUES(?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, key, value)
	return err
}
