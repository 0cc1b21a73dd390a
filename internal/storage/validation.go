// Package storage keeps raw snapshots of the loading sheet in SQLite so
// reports can be recomputed offline.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/loadboard/internal/model"
)

// Argument errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidLimit = errors.New("limit must not be negative")
)

// validateContext rejects a nil context before it reaches database/sql.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s, name string) error {
	if strings.TrimSpace(s) != "" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEmptyString, name)
}

// validateTable accepts any table with a header row; a sheet with only a
// header is a valid, empty snapshot.
func validateTable(table *model.Table) error {
	switch {
	case table == nil:
		return fmt.Errorf("%w: table", ErrNilParameter)
	case len(table.Header) == 0:
		return fmt.Errorf("%w: table header", ErrEmptyString)
	}
	return nil
}
