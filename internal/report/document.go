// Package report assembles the content of a load conference document.
// It decides which values appear and in which order; drawing them is left
// to a renderer.
package report

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loadboard/internal/model"
)

// Title heads every conference document.
const Title = "CONFERÊNCIA DE CARGA"

// Header labels, in print order.
const (
	LabelDriver         = "Motorista"
	LabelPlate          = "Placa"
	LabelDestination    = "Destino"
	LabelDate           = "Data"
	LabelCollectionCode = "GW"
	LabelCubage         = "Cubagem Total"
	LabelWeight         = "Peso Total (Kg)"
	LabelKit            = "KIT"
	LabelMix            = "MIX"
)

// ItemColumns are the line-item table headings, in print order.
var ItemColumns = []string{"Cliente", "NF", "Volumes", "Peso", "Cubagem", "Redespacho", "Conferido"}

// Field is one labeled header value.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// LineItem is one note of the load as printed in the item table.
// Confirmation is left blank for manual sign-off.
type LineItem struct {
	Client       string `json:"client" yaml:"client"`
	Invoices     string `json:"invoices" yaml:"invoices"`
	Volumes      string `json:"volumes" yaml:"volumes"`
	Weight       string `json:"weight" yaml:"weight"`
	Cubage       string `json:"cubage" yaml:"cubage"`
	Redispatch   string `json:"redispatch" yaml:"redispatch"`
	Confirmation string `json:"confirmation" yaml:"confirmation"`
}

// Cells returns the item's values in ItemColumns order.
func (li LineItem) Cells() []string {
	return []string{li.Client, li.Invoices, li.Volumes, li.Weight, li.Cubage, li.Redispatch, li.Confirmation}
}

// Document is everything a renderer needs to print one load.
type Document struct {
	Title   string       `json:"title" yaml:"title"`
	Key     string       `json:"key" yaml:"key"`
	Status  model.Status `json:"status" yaml:"status"`
	Header  []Field      `json:"header" yaml:"header"`
	Columns []string     `json:"columns,omitempty" yaml:"columns,omitempty"`
	Items   []LineItem   `json:"items,omitempty" yaml:"items,omitempty"`
	Index   int          `json:"index" yaml:"index"`
}

// HasItems reports whether the document carries a line-item table.
func (d Document) HasItems() bool {
	return len(d.Columns) > 0
}

// Value returns the header value with the given label.
func (d Document) Value(label string) (string, bool) {
	for _, f := range d.Header {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

func formatFixed(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Filename names the printed file of a document, e.g. carga_3_ABC1D23.pdf.
// Characters outside [A-Za-z0-9_-] in the plate become underscores.
func (d Document) Filename(ext string) string {
	plate, _ := d.Value(LabelPlate)
	return fmt.Sprintf("carga_%d_%s.%s", d.Index, fileSafe(plate), ext)
}

func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "sem_placa"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
