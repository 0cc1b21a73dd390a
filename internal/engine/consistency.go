package engine

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loadboard/internal/model"
)

// HeaderMismatch records a note whose header field differs from the
// first note of its load.
type HeaderMismatch struct {
	Field model.Field `json:"field"`
	Want  string      `json:"want"`
	Got   string      `json:"got"`
	Row   int         `json:"row"`
}

// HeaderMismatchError rejects a load whose notes disagree on header fields.
type HeaderMismatchError struct {
	Mismatches []HeaderMismatch
	LoadIndex  int
}

func (e *HeaderMismatchError) Error() string {
	first := e.Mismatches[0]
	return fmt.Sprintf("load %d: %d header mismatches (row %d %s: %q, first note has %q)",
		e.LoadIndex, len(e.Mismatches), first.Row, first.Field, first.Got, first.Want)
}

// CheckHeaders compares every note's header fields and completion flag to
// the first note's. Values are compared after trimming whitespace; a blank
// cell on a later note is not a disagreement.
func CheckHeaders(load model.Load) []HeaderMismatch {
	first := load.First()
	want := headerValues(first)

	var mismatches []HeaderMismatch
	for _, n := range load.Notes[1:] {
		got := headerValues(n)
		for i, field := range headerFields {
			g := strings.TrimSpace(got[i])
			if g != "" && g != strings.TrimSpace(want[i]) {
				mismatches = append(mismatches, HeaderMismatch{
					Field: field,
					Want:  want[i],
					Got:   got[i],
					Row:   n.Row,
				})
			}
		}
	}
	return mismatches
}

var headerFields = []model.Field{
	model.FieldDriver,
	model.FieldPlate,
	model.FieldDestination,
	model.FieldDate,
	model.FieldCollectionCode,
	model.FieldCompleted,
}

func headerValues(n model.Note) []string {
	return []string{n.Driver, n.Plate, n.Destination, n.Date, n.CollectionCode, n.Completed}
}
