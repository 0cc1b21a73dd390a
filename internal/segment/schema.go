// Package segment binds the loading sheet's columns and splits its rows
// into loads at blank-row boundaries.
package segment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/loadboard/internal/model"
)

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError lists the required columns absent from a header row.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Columns, ", "))
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Schema maps each required field to its position in a row.
type Schema struct {
	index map[model.Field]int
}

// Bind locates every required field in the header row. Header names are
// compared after trimming surrounding whitespace; case is significant.
// Fields absent from columns fall back to model.DefaultColumns.
func Bind(header []string, columns map[model.Field]string) (*Schema, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	defaults := model.DefaultColumns()
	schema := &Schema{index: make(map[model.Field]int, len(model.RequiredFields))}
	var missing []string

	for _, field := range model.RequiredFields {
		name := strings.TrimSpace(columns[field])
		if name == "" {
			name = defaults[field]
		}

		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		schema.index[field] = pos
	}

	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	return schema, nil
}

// Note builds a note from a data row. Cells past the end of a short row
// read as empty.
func (s *Schema) Note(row []string, rowNumber int) model.Note {
	cell := func(f model.Field) string {
		i := s.index[f]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	return model.Note{
		Driver:         cell(model.FieldDriver),
		Plate:          cell(model.FieldPlate),
		Destination:    cell(model.FieldDestination),
		Date:           cell(model.FieldDate),
		CollectionCode: cell(model.FieldCollectionCode),
		Client:         cell(model.FieldClient),
		Invoices:       cell(model.FieldInvoices),
		Volumes:        cell(model.FieldVolumes),
		Weight:         cell(model.FieldWeight),
		Cubage:         cell(model.FieldCubage),
		Redispatch:     cell(model.FieldRedispatch),
		Completed:      cell(model.FieldCompleted),
		Row:            rowNumber,
	}
}
