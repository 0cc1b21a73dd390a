package segment

import (
	"github.com/Veraticus/loadboard/internal/model"
)

// IsBlank reports whether every cell of the row is the empty string.
// A row with no cells at all is blank.
func IsBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// Split groups consecutive non-blank items into blocks, in order. Blank
// items only delimit; they never produce an empty block.
func Split[T any](items []T, blank func(T) bool) [][]T {
	var blocks [][]T
	var pending []T

	for _, item := range items {
		if blank(item) {
			if len(pending) > 0 {
				blocks = append(blocks, pending)
				pending = nil
			}
			continue
		}
		pending = append(pending, item)
	}

	if len(pending) > 0 {
		blocks = append(blocks, pending)
	}
	return blocks
}

// Loads binds the table's header and reconstructs its loads. The returned
// loads are indexed from zero in sheet order.
func Loads(table *model.Table, columns map[model.Field]string) ([]model.Load, error) {
	schema, err := Bind(table.Header, columns)
	if err != nil {
		return nil, err
	}

	type numberedRow struct {
		cells  []string
		number int
	}

	rows := make([]numberedRow, len(table.Rows))
	for i, cells := range table.Rows {
		rows[i] = numberedRow{cells: cells, number: i + 2}
	}

	blocks := Split(rows, func(r numberedRow) bool { return IsBlank(r.cells) })

	loads := make([]model.Load, 0, len(blocks))
	for i, block := range blocks {
		notes := make([]model.Note, len(block))
		for j, r := range block {
			notes[j] = schema.Note(r.cells, r.number)
		}
		loads = append(loads, model.Load{Index: i, Notes: notes})
	}
	return loads, nil
}
