package ml

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
)

// Dataset is a parsed CSV with a header row. Column lookup trims
// whitespace and is case-insensitive, matching how uploads from
// spreadsheet exports tend to arrive.
type Dataset struct {
	columns map[string]int
	rows    [][]string
}

// ParseCSV reads a headered CSV. Ragged rows are rejected by the csv
// reader itself.
func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.ValidationError("Malformed CSV").WithCause(err)
	}
	if len(records) < 2 {
		return nil, apperrors.ValidationError("CSV needs a header row and at least one data row")
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[normalizeColumn(name)] = i
	}

	return &Dataset{columns: columns, rows: records[1:]}, nil
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Columns extracts the feature matrix and label vector in the given
// feature order. Unknown or non-numeric columns surface the offending
// field by name.
func (d *Dataset) Columns(featureNames []string, labelName string) (X [][]float64, y []float64, err error) {
	featureIdx := make([]int, len(featureNames))
	for i, name := range featureNames {
		idx, ok := d.columns[normalizeColumn(name)]
		if !ok {
			return nil, nil, apperrors.InvalidInput("features", fmt.Sprintf("column %q not found in CSV", name))
		}
		featureIdx[i] = idx
	}
	labelIdx, ok := d.columns[normalizeColumn(labelName)]
	if !ok {
		return nil, nil, apperrors.InvalidInput("label", fmt.Sprintf("column %q not found in CSV", labelName))
	}

	X = make([][]float64, len(d.rows))
	y = make([]float64, len(d.rows))
	for r, row := range d.rows {
		X[r] = make([]float64, len(featureIdx))
		for i, idx := range featureIdx {
			value, err := parseCell(row, idx, featureNames[i], r)
			if err != nil {
				return nil, nil, err
			}
			X[r][i] = value
		}
		value, err := parseCell(row, labelIdx, labelName, r)
		if err != nil {
			return nil, nil, err
		}
		y[r] = value
	}
	return X, y, nil
}

func parseCell(row []string, idx int, column string, rowNum int) (float64, error) {
	if idx >= len(row) {
		return 0, apperrors.ValidationError(fmt.Sprintf("row %d is missing column %q", rowNum+1, column))
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, apperrors.InvalidInput(column, fmt.Sprintf("non-numeric value %q in row %d", row[idx], rowNum+1))
	}
	return value, nil
}
