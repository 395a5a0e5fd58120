// Package dataset loads raw training datasets from CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/record"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
)

// LoadCSV reads a headered CSV of numeric cells. Headers are mapped to canonical
// column names, so the published dataset headers ("chest pain type", "ST slope") load as-is.
func LoadCSV(r io.Reader) (table.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return table.Table{}, fmt.Errorf("%w: dataset is empty", domain.ErrInvalidRecord)
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	for j, h := range header {
		names[j] = record.CanonicalColumn(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows [][]float64
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table.Table{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
		}
		line, _ := cr.FieldPos(0)
		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return table.Table{}, fmt.Errorf("%w: line %d column %s: %q is not a number",
					domain.ErrInvalidRecord, line, names[j], f)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	t, err := table.New(names, rows)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	return t, nil
}

// LoadFile opens path and reads it with LoadCSV.
func LoadFile(path string) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := LoadCSV(f)
	if err != nil {
		return table.Table{}, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}
