package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const bom = "\uFEFF"

// ReadGrid parses a CSV or XLSX payload by the extension of name.
func ReadGrid(name string, r io.Reader, sheet string) (domain.Grid, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, sheet)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

// ReadCSV reads every row; ragged rows are kept as they are.
func ReadCSV(r io.Reader) (domain.Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var grid domain.Grid
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(grid) == 0 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], bom)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// ReadXLSX reads one sheet, the first when sheet is empty. Cells come back
// unformatted so dates stay serial numbers.
func ReadXLSX(r io.Reader, sheet string) (domain.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}
