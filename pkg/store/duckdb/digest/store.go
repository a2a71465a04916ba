package digest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
)

// Store remembers which report days a digest was already delivered for.
type Store interface {
	LastRun(ctx context.Context, report string) (*store.DigestRun, error)
	RecordRun(ctx context.Context, run store.DigestRun) error
	ListRuns(ctx context.Context, reports []string) ([]*store.DigestRun, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) LastRun(ctx context.Context, report string) (*store.DigestRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT report, anchor_date, recipients, sent_at, error
		FROM digest_runs
		WHERE report = ? AND error IS NULL
		ORDER BY anchor_date DESC
		LIMIT 1`, report)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last digest run: %w", err)
	}
	return run, nil
}

// RecordRun stores a delivery attempt; a later attempt for the same day
// replaces the earlier one.
func (s *defaultStore) RecordRun(ctx context.Context, run store.DigestRun) error {
	if run.Report == "" {
		return fmt.Errorf("report is required")
	}
	sentAt := run.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO digest_runs (report, anchor_date, recipients, sent_at, error)
		VALUES (?, ?, ?, ?, ?)`,
		run.Report, run.AnchorDate, run.Recipients, sentAt, run.Error,
	)
	if err != nil {
		return fmt.Errorf("record digest run: %w", err)
	}
	return nil
}

func (s *defaultStore) ListRuns(ctx context.Context, reports []string) ([]*store.DigestRun, error) {
	query := `SELECT report, anchor_date, recipients, sent_at, error FROM digest_runs`
	args := make([]interface{}, 0, len(reports))
	if len(reports) > 0 {
		query += " WHERE report IN (?" + strings.Repeat(", ?", len(reports)-1) + ")"
		for _, r := range reports {
			args = append(args, r)
		}
	}
	query += " ORDER BY report, anchor_date"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list digest runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*store.DigestRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*store.DigestRun, error) {
	var (
		run     store.DigestRun
		errText sql.NullString
	)
	if err := row.Scan(&run.Report, &run.AnchorDate, &run.Recipients, &run.SentAt, &errText); err != nil {
		return nil, err
	}
	if errText.Valid {
		run.Error = &errText.String
	}
	return &run, nil
}
