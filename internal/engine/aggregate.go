package engine

import (
	"github.com/Veraticus/loadboard/internal/classification"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/numeric"
)

// NoteMetrics are the normalized figures and routing category of one note.
type NoteMetrics struct {
	Category string  `json:"category"`
	Cubage   float64 `json:"cubage"`
	Weight   float64 `json:"weight"`
	Volumes  float64 `json:"volumes"`
}

// Summary is the reduction of a load: header, status, totals and the
// per-note figures the totals were summed from.
type Summary struct {
	Header    model.Header    `json:"header"`
	Status    model.Status    `json:"status"`
	Category  string          `json:"category"`
	Aggregate model.Aggregate `json:"aggregate"`
	Notes     []NoteMetrics   `json:"notes"`
}

// Aggregator reduces loads to summaries.
type Aggregator struct {
	router     *classification.Router
	normalizer *numeric.Normalizer
	columns    map[model.Field]string
}

// NewAggregator creates an aggregator. columns names the sheet columns for
// parse-failure reports; missing entries use model.DefaultColumns.
func NewAggregator(router *classification.Router, normalizer *numeric.Normalizer, columns map[model.Field]string) *Aggregator {
	names := model.DefaultColumns()
	for field, name := range columns {
		if name != "" {
			names[field] = name
		}
	}
	return &Aggregator{
		router:     router,
		normalizer: normalizer,
		columns:    names,
	}
}

// Measure normalizes and classifies a single note.
func (a *Aggregator) Measure(n model.Note) NoteMetrics {
	return NoteMetrics{
		Category: a.router.Category(n),
		Cubage:   a.normalizer.Float(a.columns[model.FieldCubage], n.Cubage),
		Weight:   a.normalizer.Float(a.columns[model.FieldWeight], n.Weight),
		Volumes:  a.normalizer.Float(a.columns[model.FieldVolumes], n.Volumes),
	}
}

// Summarize reduces a load. Header fields, status and the load category are
// taken from the first note; malformed numbers count as zero.
func (a *Aggregator) Summarize(load model.Load) Summary {
	first := load.First()

	s := Summary{
		Header: first.Header(),
		Status: model.ParseStatus(first.Completed),
		Notes:  make([]NoteMetrics, len(load.Notes)),
	}

	for i, n := range load.Notes {
		m := a.Measure(n)
		s.Notes[i] = m
		s.Aggregate.Add(model.Aggregate{
			Cubage:    m.Cubage,
			Weight:    m.Weight,
			Volumes:   m.Volumes,
			NoteCount: 1,
		})
	}
	s.Category = s.Notes[0].Category

	return s
}

// NoteCubage returns the normalized cubage of each note in order.
func (s Summary) NoteCubage() []float64 {
	out := make([]float64, len(s.Notes))
	for i, m := range s.Notes {
		out[i] = m.Cubage
	}
	return out
}
