package file

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// Extractor finds the header row of a grid and returns the records below it.
type Extractor interface {
	ExtractRecords(ctx context.Context, sourceType string, grid domain.Grid) ([]domain.RawRecord, error)
}

// Source reads a source export from the local filesystem on every fetch.
type Source struct {
	path       string
	sheet      string
	sourceType string
	extractor  Extractor
}

func NewSource(path, sheet, sourceType string, extractor Extractor) *Source {
	return &Source{
		path:       path,
		sheet:      sheet,
		sourceType: sourceType,
		extractor:  extractor,
	}
}

func (s *Source) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	return Load(ctx, s.path, s.sheet, s.sourceType, s.extractor)
}

// Load parses the file at path into raw records of sourceType.
func Load(ctx context.Context, path, sheet, sourceType string, extractor Extractor) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	grid, err := ReadGrid(path, f, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return extractor.ExtractRecords(ctx, sourceType, grid)
}
