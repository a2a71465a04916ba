package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootsSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO import_batches (id, source_type, file_name, row_count) VALUES (?, ?, ?, ?)`,
		"batch-001", "blinkit_sales", "sales.csv", 2,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM import_batches WHERE id = ?", "batch-001").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	for _, table := range []string{"imported_records", "digest_runs"} {
		err = db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, table)
		assert.Equal(t, 0, count)
	}
}

func TestNewDB_InMemory(t *testing.T) {
	db, err := NewDB(Settings{DbPath: MemoryPath})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM import_batches").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "?threads=4", dsn(MemoryPath))
	assert.Equal(t, "?threads=4", dsn(""))
	assert.Equal(t, "atlas.db?threads=4", dsn("atlas.db"))
}
