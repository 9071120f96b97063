package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ajramos/tagview/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestOpen_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		dbPath      string
		expectedErr string
	}{
		{"empty_path", "", "empty database path"},
		{"whitespace_path", "   ", "empty database path"},
		{"tabs_path", "\t\t", "empty database path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.dbPath)
			assert.Nil(t, store)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestOpen_Success(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)
	assert.NotNil(t, store.db)

	// Cleanup
	assert.NoError(t, store.Close())
}

func TestOpen_DirectoryCreation(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "deep", "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)

	// Verify nested directories were created
	assert.DirExists(t, filepath.Dir(dbPath))

	// Cleanup
	assert.NoError(t, store.Close())
}

func TestOpen_FilePermissions(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)

	// Check file permissions (should be 0600)
	info, err := os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Cleanup
	assert.NoError(t, store.Close())
}

func TestOpen_ExistingFile(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "existing.db")

	// Create first store
	store1, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store1)
	assert.NoError(t, store1.Close())

	// Open existing file
	store2, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store2)
	assert.NoError(t, store2.Close())
}

func TestClose_NilStore(t *testing.T) {
	var store *Store
	err := store.Close()
	assert.NoError(t, err) // Should handle nil gracefully
}

func TestClose_NilDB(t *testing.T) {
	store := &Store{db: nil}
	err := store.Close()
	assert.NoError(t, err) // Should handle nil db gracefully
}

func TestClose_ValidStore(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)

	err = store.Close()
	assert.NoError(t, err)
}

func TestDB_Getter(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store.Close()

	db := store.DB()
	assert.NotNil(t, db)
	assert.IsType(t, &sql.DB{}, db)
}

func TestMigration_V1_DomainTables(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "migrate_v1.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store.Close()

	for _, table := range []string{"tags", "views", "messages"} {
		var tableName string
		err = store.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&tableName)
		assert.NoError(t, err)
		assert.Equal(t, table, tableName)
	}
}

func TestMigration_V2_Settings(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "migrate_v2.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store.Close()

	var tableName string
	err = store.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='settings'").Scan(&tableName)
	assert.NoError(t, err)
	assert.Equal(t, "settings", tableName)

	var indexName string
	err = store.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_messages_date'").Scan(&indexName)
	assert.NoError(t, err)

	// Verify current version is 2
	var version int
	err = store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	assert.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestPragmas_Configuration(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "pragmas.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store.Close()

	// Verify WAL mode is set
	var journalMode string
	err = store.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
	assert.NoError(t, err)
	assert.Equal(t, "wal", journalMode)
}

func TestDatabaseConstraints_PrimaryKey(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "constraints.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store.Close()

	_, err = store.db.ExecContext(ctx,
		"INSERT INTO tags (id, position, name) VALUES (?, ?, ?)", "work", 0, "Work")
	assert.NoError(t, err)

	// Duplicate id violates the PRIMARY KEY
	_, err = store.db.ExecContext(ctx,
		"INSERT INTO tags (id, position, name) VALUES (?, ?, ?)", "work", 1, "Work again")
	assert.Error(t, err)

	// Default list columns are empty JSON arrays
	var instructions string
	err = store.db.QueryRowContext(ctx, "SELECT instructions FROM tags WHERE id = ?", "work").Scan(&instructions)
	assert.NoError(t, err)
	assert.Equal(t, "[]", instructions)
}

func TestDatabase_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "concurrent.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store.Close()

	// Test that multiple connections can be opened (WAL mode supports this)
	store2, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	defer store2.Close()

	// Both should be able to read
	var version1, version2 int
	err = store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version1)
	assert.NoError(t, err)

	err = store2.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version2)
	assert.NoError(t, err)

	assert.Equal(t, version1, version2)
}

// Benchmark database operations
func BenchmarkOpen(b *testing.B) {
	ctx := context.Background()
	tmpDir := b.TempDir()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dbPath := filepath.Join(tmpDir, fmt.Sprintf("bench_%d.db", i))
		store, err := Open(ctx, dbPath)
		if err != nil {
			b.Fatal(err)
		}
		_ = store.Close()
		_ = os.Remove(dbPath) // Clean up
	}
}

func BenchmarkReplaceTags(b *testing.B) {
	ctx := context.Background()
	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench_tags.db")

	store, err := Open(ctx, dbPath)
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	tags := make([]models.Tag, 50)
	for i := range tags {
		tags[i] = models.Tag{ID: fmt.Sprintf("tag-%d", i), Name: fmt.Sprintf("Tag %d", i), Instructions: []string{"x"}}
	}
	ts := NewTagStore(store)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ts.ReplaceTags(ctx, tags); err != nil {
			b.Fatal(err)
		}
	}
}
