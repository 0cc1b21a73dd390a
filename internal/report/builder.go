package report

import (
	"github.com/Veraticus/loadboard/internal/model"
)

// Input is a load together with the figures computed for it.
type Input struct {
	Load       model.Load
	Status     model.Status
	Aggregate  model.Aggregate
	Allocation model.Allocation
	// NoteCubage holds the normalized cubage of each note, aligned with Load.Notes.
	NoteCubage []float64
}

// Options controls optional document sections.
type Options struct {
	IncludeItems bool
}

// Build assembles the conference document of a load. Header values come
// from the first note; totals and KIT/MIX are printed with two decimals.
func Build(in Input, opts Options) Document {
	h := in.Load.Header()

	doc := Document{
		Title:  Title,
		Index:  in.Load.Index,
		Key:    in.Load.Key(),
		Status: in.Status,
		Header: []Field{
			{Label: LabelDriver, Value: h.Driver},
			{Label: LabelPlate, Value: h.Plate},
			{Label: LabelDestination, Value: h.Destination},
			{Label: LabelDate, Value: h.Date},
			{Label: LabelCollectionCode, Value: h.CollectionCode},
			{Label: LabelCubage, Value: formatFixed(in.Aggregate.Cubage)},
			{Label: LabelWeight, Value: formatFixed(in.Aggregate.Weight)},
			{Label: LabelKit, Value: formatFixed(in.Allocation.Kit)},
			{Label: LabelMix, Value: formatFixed(in.Allocation.Mix)},
		},
	}

	if !opts.IncludeItems {
		return doc
	}

	doc.Columns = append([]string(nil), ItemColumns...)
	doc.Items = make([]LineItem, len(in.Load.Notes))
	for i, n := range in.Load.Notes {
		var cubage float64
		if i < len(in.NoteCubage) {
			cubage = in.NoteCubage[i]
		}
		doc.Items[i] = LineItem{
			Client:     n.Client,
			Invoices:   n.Invoices,
			Volumes:    n.Volumes,
			Weight:     n.Weight,
			Cubage:     formatFixed(cubage),
			Redispatch: n.RedispatchLabel(),
		}
	}
	return doc
}
