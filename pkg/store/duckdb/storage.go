package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb"
)

const ImportBatchSequence = `CREATE SEQUENCE IF NOT EXISTS import_batch_seq START 1;`

const ImportBatchesSchema = `
	CREATE TABLE IF NOT EXISTS import_batches (
		id VARCHAR PRIMARY KEY,
		seq BIGINT NOT NULL DEFAULT nextval('import_batch_seq'),
		source_type VARCHAR NOT NULL,
		file_name VARCHAR,
		row_count INTEGER NOT NULL,
		imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`
const ImportedRecordsSchema = `
	CREATE TABLE IF NOT EXISTS imported_records (
		batch_id VARCHAR NOT NULL,
		row_index INTEGER NOT NULL,
		payload VARCHAR NOT NULL,
		PRIMARY KEY (batch_id, row_index)
	);
`
const DigestRunsSchema = `
	CREATE TABLE IF NOT EXISTS digest_runs (
		report VARCHAR NOT NULL,
		anchor_date DATE NOT NULL,
		recipients INTEGER NOT NULL,
		sent_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		error VARCHAR NULL,
		PRIMARY KEY (report, anchor_date)
	);
`

var bootQueries = []string{
	ImportBatchSequence,
	ImportBatchesSchema,
	ImportedRecordsSchema,
	DigestRunsSchema,
}

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Settings struct {
	DbPath string
}

// dsn appends connector options to path. The driver reads an empty path as an
// in-memory database; ":memory:" would be parsed as a URL scheme.
func dsn(path string) string {
	if path == MemoryPath {
		path = ""
	}
	return fmt.Sprintf("%s?threads=4", path)
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(dsn(settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
