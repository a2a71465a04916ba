package records

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/google/uuid"
)

// Store keeps uploaded source files in DuckDB. Reads return the latest batch of
// a source type; every upload is a full export that replaces the previous one.
type Store interface {
	Add(ctx context.Context, sourceType, fileName string, records []domain.RawRecord) (*store.ImportBatch, error)
	Fetch(ctx context.Context, sourceType string) ([]domain.RawRecord, error)
	ListBatches(ctx context.Context, sourceType string) ([]store.ImportBatch, error)
	// Source binds the store to one source type as a row source.
	Source(sourceType string) *Source
}

type recordStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recordStore{
		db: db,
	}, nil
}

func (s *recordStore) Add(
	ctx context.Context,
	sourceType, fileName string,
	records []domain.RawRecord,
) (*store.ImportBatch, error) {
	if sourceType == "" {
		return nil, fmt.Errorf("source type is required")
	}

	batch := &store.ImportBatch{
		ID:         uuid.NewString(),
		SourceType: sourceType,
		FileName:   fileName,
		Rows:       len(records),
		ImportedAt: time.Now().UTC(),
	}

	err := duckdb.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO import_batches (id, source_type, file_name, row_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
			batch.ID, batch.SourceType, batch.FileName, batch.Rows, batch.ImportedAt,
		)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO imported_records (batch_id, row_index, payload) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, record := range records {
			payload, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("marshal record %d: %w", i, err)
			}
			if _, err := stmt.ExecContext(ctx, batch.ID, i, string(payload)); err != nil {
				return fmt.Errorf("insert record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *recordStore) Fetch(ctx context.Context, sourceType string) ([]domain.RawRecord, error) {
	var batchID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM import_batches WHERE source_type = ? ORDER BY seq DESC LIMIT 1`,
		sourceType,
	).Scan(&batchID)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest batch: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM imported_records WHERE batch_id = ? ORDER BY row_index`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *recordStore) ListBatches(ctx context.Context, sourceType string) ([]store.ImportBatch, error) {
	query := `SELECT id, source_type, file_name, row_count, imported_at FROM import_batches`
	var args []interface{}
	if sourceType != "" {
		query += " WHERE source_type = ?"
		args = append(args, sourceType)
	}
	query += " ORDER BY seq DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := make([]store.ImportBatch, 0)
	for rows.Next() {
		var (
			b        store.ImportBatch
			fileName sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.SourceType, &fileName, &b.Rows, &b.ImportedAt); err != nil {
			return nil, err
		}
		b.FileName = fileName.String
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (s *recordStore) Source(sourceType string) *Source {
	return &Source{store: s, sourceType: sourceType}
}

func scanRecords(rows *sql.Rows) ([]domain.RawRecord, error) {
	records := make([]domain.RawRecord, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		dec := json.NewDecoder(bytes.NewBufferString(payload))
		dec.UseNumber()
		record := domain.RawRecord{}
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Source serves the latest imported batch of one source type.
type Source struct {
	store      Store
	sourceType string
}

func (s *Source) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	return s.store.Fetch(ctx, s.sourceType)
}
