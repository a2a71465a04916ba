package sql

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// TableSource reads every row of one table as raw records.
type TableSource struct {
	db    *sqlx.DB
	table string
	query string
}

func NewTableSource(db *sqlx.DB, table string) (*TableSource, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &TableSource{
		db:    db,
		table: table,
		query: "SELECT * FROM " + quoteTable(db.DriverName(), table),
	}, nil
}

func quoteTable(driverName, table string) string {
	quote := `"`
	if driverName == "mysql" || driverName == "databricks" {
		quote = "`"
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = quote + p + quote
	}
	return strings.Join(parts, ".")
}

func (s *TableSource) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", s.table, err)
	}
	defer func(rows *sqlx.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close table rows")
		}
	}(rows)

	records := make([]domain.RawRecord, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("%s scan failed: %w", s.table, err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows failed: %w", s.table, err)
	}

	logger.Debug().Str("table", s.table).Int("rows", len(records)).Msg("fetched table rows")
	return records, nil
}
