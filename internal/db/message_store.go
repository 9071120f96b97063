package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/tagview/internal/models"
)

// MessageStore caches messages and their tag lists
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore creates a new message store from a base store
func NewMessageStore(store *Store) *MessageStore {
	if store == nil {
		return nil
	}
	return &MessageStore{db: store.DB()}
}

// ListMessages returns cached messages, newest first
func (ms *MessageStore) ListMessages(ctx context.Context) ([]models.Message, error) {
	if ms == nil || ms.db == nil {
		return nil, fmt.Errorf("message store not initialized")
	}
	rows, err := ms.db.QueryContext(ctx, `SELECT id, sender, subject, preview, date, tags FROM messages ORDER BY date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		var date int64
		var tags string
		if err := rows.Scan(&m.ID, &m.Sender, &m.Subject, &m.Preview, &date, &tags); err != nil {
			return nil, err
		}
		m.Date = time.Unix(date, 0).UTC()
		if m.Tags, err = decodeList[string](tags); err != nil {
			return nil, fmt.Errorf("message %s tags: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertMessages inserts or replaces messages by ID
func (ms *MessageStore) UpsertMessages(ctx context.Context, messages []models.Message) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	tx, err := ms.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range messages {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("invalid message: empty id")
		}
		tags, err := encodeList(m.Tags)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO messages(id, sender, subject, preview, date, tags)
VALUES(?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET sender=excluded.sender, subject=excluded.subject, preview=excluded.preview, date=excluded.date, tags=excluded.tags;
`, m.ID, m.Sender, m.Subject, m.Preview, m.Date.Unix(), tags)
		if err != nil {
			return fmt.Errorf("upsert message %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// SaveMessageTags replaces the tag list of one cached message
func (ms *MessageStore) SaveMessageTags(ctx context.Context, messageID string, tagIDs []string) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	tags, err := encodeList(tagIDs)
	if err != nil {
		return err
	}
	res, err := ms.db.ExecContext(ctx, `UPDATE messages SET tags=? WHERE id=?`, tags, messageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("message %s: %w", messageID, sql.ErrNoRows)
	}
	return nil
}

// CountMessages returns the number of cached messages
func (ms *MessageStore) CountMessages(ctx context.Context) (int, error) {
	if ms == nil || ms.db == nil {
		return 0, fmt.Errorf("message store not initialized")
	}
	var n int
	err := ms.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}
