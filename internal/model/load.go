package model

import (
	"strings"

	"github.com/google/uuid"
)

// loadNamespace seeds the name-based UUIDs returned by Load.Key.
var loadNamespace = uuid.MustParse("5b0f3c0e-8d3a-4a8e-9d0c-2f1b6f1e7a41")

// Load is a contiguous block of notes loaded on the same truck trip.
// Index is the position of the load in the reconstructed sequence and is
// only meaningful for a single refresh of the source.
type Load struct {
	Notes []Note
	Index int
}

// First returns the note that carries the load's header fields.
// Segmentation never emits empty loads, so calling First on one is a bug.
func (l Load) First() Note {
	if len(l.Notes) == 0 {
		panic("model: empty load")
	}
	return l.Notes[0]
}

// Header returns the header fields of the first note.
func (l Load) Header() Header {
	return l.First().Header()
}

// Key derives an identifier from the load's content that survives refreshes
// as long as driver, plate, date and collection code do not change.
func (l Load) Key() string {
	h := l.Header()
	parts := []string{
		normalizeKeyPart(h.Driver),
		normalizeKeyPart(h.Plate),
		normalizeKeyPart(h.Date),
		normalizeKeyPart(h.CollectionCode),
	}
	return uuid.NewSHA1(loadNamespace, []byte(strings.Join(parts, "|"))).String()
}

func normalizeKeyPart(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
