package engine

import (
	"fmt"
	"sort"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/model"
)

// ErrLoadNotFound is returned when a load index is out of range. It
// matches common.ErrNotFound.
var ErrLoadNotFound = fmt.Errorf("load %w", common.ErrNotFound)

// Result holds every load of a sheet refresh in sheet order. Categories
// and Totals cover the accepted loads.
type Result struct {
	Loads      []LoadResult
	Categories []model.CategoryTotal
	Totals     model.Aggregate
}

// Dashboard is the per-category view of a set of loads.
type Dashboard struct {
	Categories []model.CategoryTotal `json:"categories" yaml:"categories"`
	Totals     model.Aggregate       `json:"totals" yaml:"totals"`
	Loads      int                   `json:"loads" yaml:"loads"`
}

func newResult(loads []LoadResult) *Result {
	d := Summarize(loads)
	return &Result{
		Loads:      loads,
		Categories: d.Categories,
		Totals:     d.Totals,
	}
}

// Load returns the load at the given index.
func (r *Result) Load(index int) (*LoadResult, error) {
	if index < 0 || index >= len(r.Loads) {
		return nil, fmt.Errorf("%w: index %d (have %d loads)", ErrLoadNotFound, index, len(r.Loads))
	}
	return &r.Loads[index], nil
}

// Accepted returns the loads that were not rejected.
func (r *Result) Accepted() []LoadResult {
	var out []LoadResult
	for _, l := range r.Loads {
		if l.Rejected == nil {
			out = append(out, l)
		}
	}
	return out
}

// Rejected returns the loads rejected for disagreeing header fields.
func (r *Result) Rejected() []LoadResult {
	var out []LoadResult
	for _, l := range r.Loads {
		if l.Rejected != nil {
			out = append(out, l)
		}
	}
	return out
}

// Pending returns the loads still being loaded.
func (r *Result) Pending() []LoadResult {
	return r.filter(model.StatusPending)
}

// Completed returns the loads whose loading is finished.
func (r *Result) Completed() []LoadResult {
	return r.filter(model.StatusCompleted)
}

// Dashboard summarizes the pending loads, the ones still on the dock.
func (r *Result) Dashboard() Dashboard {
	return Summarize(r.Pending())
}

func (r *Result) filter(status model.Status) []LoadResult {
	var out []LoadResult
	for _, l := range r.Loads {
		if l.Rejected == nil && l.Summary.Status == status {
			out = append(out, l)
		}
	}
	return out
}

// Summarize totals the given loads and groups their notes by routing
// category. Rejected loads are skipped. Categories are ordered by cubage
// ascending, then by name.
func Summarize(loads []LoadResult) Dashboard {
	var d Dashboard
	byCategory := make(map[string]*model.CategoryTotal)

	for _, l := range loads {
		if l.Rejected != nil {
			continue
		}
		d.Loads++
		d.Totals.Add(l.Summary.Aggregate)
		for _, m := range l.Summary.Notes {
			ct, ok := byCategory[m.Category]
			if !ok {
				ct = &model.CategoryTotal{Category: m.Category}
				byCategory[m.Category] = ct
			}
			ct.Add(model.Aggregate{Cubage: m.Cubage, Weight: m.Weight, Volumes: m.Volumes, NoteCount: 1})
		}
	}

	d.Categories = make([]model.CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		d.Categories = append(d.Categories, *ct)
	}
	sort.Slice(d.Categories, func(i, j int) bool {
		a, b := d.Categories[i], d.Categories[j]
		if a.Cubage != b.Cubage {
			return a.Cubage < b.Cubage
		}
		return a.Category < b.Category
	})

	return d
}
