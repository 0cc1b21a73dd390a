// Package xlsx reads loading sheets exported to Excel workbooks.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/model"
)

// Reader implements service.RowSource for a local .xlsx workbook.
type Reader struct {
	logger *slog.Logger
	path   string
	sheet  string
}

// NewReader creates a workbook row source. An empty sheet selects the
// first sheet of the workbook.
func NewReader(path, sheet string, logger *slog.Logger) (*Reader, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: xlsx path is required", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{path: path, sheet: sheet, logger: logger}, nil
}

// Name identifies the workbook in logs and snapshots.
func (r *Reader) Name() string {
	if r.sheet == "" {
		return "xlsx:" + r.path
	}
	return "xlsx:" + r.path + "#" + r.sheet
}

// Fetch reads every row of the sheet. Cells are read with their displayed
// formatting, matching what the spreadsheet user sees.
func (r *Reader) Fetch(ctx context.Context) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", r.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			r.logger.Warn("failed to close workbook", "path", r.path, "error", closeErr)
		}
	}()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", r.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	table, err := TableFromRows(rows)
	if err != nil {
		return nil, err
	}

	r.logger.Info("read workbook", "path", r.path, "sheet", sheet, "rows", len(table.Rows))
	return table, nil
}

// TableFromRows converts excelize rows into a table. excelize drops trailing
// empty cells and returns empty rows as nil, so every data row is padded to
// the header width.
func TableFromRows(rows [][]string) (*model.Table, error) {
	if len(rows) == 0 {
		return nil, common.ErrNoData
	}

	header := append([]string(nil), rows[0]...)
	data := make([][]string, len(rows)-1)
	for i, raw := range rows[1:] {
		width := max(len(header), len(raw))
		row := make([]string, width)
		copy(row, raw)
		data[i] = row
	}

	return &model.Table{Header: header, Rows: data}, nil
}
