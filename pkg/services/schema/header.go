package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ExtractRecords locates the header row of an uploaded sheet and turns the rows
// below it into raw records. Leading metadata rows are discarded.
func (n *Normalizer) ExtractRecords(
	ctx context.Context,
	sourceType string,
	grid domain.Grid,
) ([]domain.RawRecord, error) {
	mapping, err := n.provider.Mapping(sourceType)
	if err != nil {
		return nil, err
	}

	headerIdx, err := detectHeader(mapping, grid)
	if err != nil {
		return nil, err
	}
	if headerIdx > 0 {
		zerolog.Ctx(ctx).Debug().
			Str("source", sourceType).
			Int("skipped_rows", headerIdx).
			Msg("header row detected below metadata")
	}

	header := dedupeHeader(grid[headerIdx])
	records := make([]domain.RawRecord, 0, len(grid)-headerIdx-1)
	for _, row := range grid[headerIdx+1:] {
		if isBlank(row) {
			continue
		}
		rec := make(domain.RawRecord, len(header))
		for j, name := range header {
			if name == "" {
				continue
			}
			if j < len(row) {
				rec[name] = row[j]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func detectHeader(mapping domain.SourceMapping, grid domain.Grid) (int, error) {
	synonyms := make(map[string]struct{})
	for _, f := range mapping.Fields {
		for _, s := range f.Synonyms {
			synonyms[FoldHeader(s)] = struct{}{}
		}
	}
	markers := make(map[string]struct{}, len(synonyms)+len(mapping.Markers))
	for s := range synonyms {
		markers[s] = struct{}{}
	}
	for _, m := range mapping.Markers {
		markers[FoldHeader(m)] = struct{}{}
	}

	if len(grid) > 0 && containsAny(grid[0], synonyms) {
		return 0, nil
	}

	window := mapping.HeaderScanWindow
	if window <= 0 {
		window = DefaultHeaderScanWindow
	}
	for i := 0; i < window && i < len(grid); i++ {
		if containsAny(grid[i], markers) {
			return i, nil
		}
	}

	return 0, &domain.SchemaError{
		SourceType: mapping.SourceType,
		Reason:     fmt.Sprintf("no header row found within the first %d rows", window),
	}
}

func containsAny(row []string, tokens map[string]struct{}) bool {
	for _, cell := range row {
		if _, ok := tokens[FoldHeader(cell)]; ok {
			return true
		}
	}
	return false
}

// dedupeHeader trims names and suffixes repeats with _2, _3, ...
func dedupeHeader(row []string) []string {
	seen := make(map[string]int, len(row))
	out := make([]string, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		out[i] = name
	}
	return out
}
