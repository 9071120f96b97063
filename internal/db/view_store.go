package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ajramos/tagview/internal/models"
)

// ViewStore persists saved views in display order
type ViewStore struct {
	db *sql.DB
}

// NewViewStore creates a new view store from a base store
func NewViewStore(store *Store) *ViewStore {
	if store == nil {
		return nil
	}
	return &ViewStore{db: store.DB()}
}

// ListViews returns all stored views ordered by position
func (vs *ViewStore) ListViews(ctx context.Context) ([]models.View, error) {
	if vs == nil || vs.db == nil {
		return nil, fmt.Errorf("view store not initialized")
	}
	rows, err := vs.db.QueryContext(ctx, `SELECT id, name, visible, icon, conditions FROM views ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.View
	for rows.Next() {
		var v models.View
		var conditions string
		if err := rows.Scan(&v.ID, &v.Name, &v.Visible, &v.Icon, &conditions); err != nil {
			return nil, err
		}
		if v.Conditions, err = decodeList[models.Condition](conditions); err != nil {
			return nil, fmt.Errorf("view %s conditions: %w", v.ID, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ReplaceViews overwrites the stored views in one transaction
func (vs *ViewStore) ReplaceViews(ctx context.Context, views []models.View) error {
	if vs == nil || vs.db == nil {
		return fmt.Errorf("view store not initialized")
	}
	tx, err := vs.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM views`); err != nil {
		return err
	}
	for i, v := range views {
		conditions, err := encodeList(v.Conditions)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO views(id, position, name, visible, icon, conditions) VALUES(?,?,?,?,?,?)`,
			v.ID, i, v.Name, v.Visible, v.Icon, conditions)
		if err != nil {
			return fmt.Errorf("insert view %s: %w", v.ID, err)
		}
	}
	return tx.Commit()
}
