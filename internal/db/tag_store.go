package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ajramos/tagview/internal/models"
)

// TagStore persists the tag registry in insertion order
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new tag store from a base store
func NewTagStore(store *Store) *TagStore {
	if store == nil {
		return nil
	}
	return &TagStore{db: store.DB()}
}

// ListTags returns all stored tags ordered by position
func (ts *TagStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	if ts == nil || ts.db == nil {
		return nil, fmt.Errorf("tag store not initialized")
	}
	rows, err := ts.db.QueryContext(ctx, `SELECT id, name, instructions, examples, negative_examples FROM tags ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		var instructions, examples, negatives string
		if err := rows.Scan(&t.ID, &t.Name, &instructions, &examples, &negatives); err != nil {
			return nil, err
		}
		if t.Instructions, err = decodeList[string](instructions); err != nil {
			return nil, fmt.Errorf("tag %s instructions: %w", t.ID, err)
		}
		if t.ExampleEmails, err = decodeList[string](examples); err != nil {
			return nil, fmt.Errorf("tag %s examples: %w", t.ID, err)
		}
		if t.NegativeExamples, err = decodeList[models.NegativeExample](negatives); err != nil {
			return nil, fmt.Errorf("tag %s negative examples: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReplaceTags overwrites the stored registry with tags in one transaction
func (ts *TagStore) ReplaceTags(ctx context.Context, tags []models.Tag) error {
	if ts == nil || ts.db == nil {
		return fmt.Errorf("tag store not initialized")
	}
	tx, err := ts.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tags`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tags(id, position, name, instructions, examples, negative_examples) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tags {
		instructions, err := encodeList(t.Instructions)
		if err != nil {
			return err
		}
		examples, err := encodeList(t.ExampleEmails)
		if err != nil {
			return err
		}
		negatives, err := encodeList(t.NegativeExamples)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, t.ID, i, t.Name, instructions, examples, negatives); err != nil {
			return fmt.Errorf("insert tag %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}
