package model

import "strings"

// Note is a single freight note (one invoice row of the loading sheet).
// Every field is kept exactly as sourced; numeric fields are normalized
// only when aggregated.
type Note struct {
	Driver         string
	Plate          string
	Destination    string
	Date           string
	CollectionCode string
	Client         string
	Invoices       string
	Volumes        string
	Weight         string
	Cubage         string
	Redispatch     string
	Completed      string
	Row            int // sheet row number, header is row 1
}

// Header returns the display identity fields of the note.
func (n Note) Header() Header {
	return Header{
		Driver:         n.Driver,
		Plate:          n.Plate,
		Destination:    n.Destination,
		Date:           n.Date,
		CollectionCode: n.CollectionCode,
	}
}

// RedispatchLabel is the per-note routing label printed on the conference
// document: the redispatch destination, or DirectDeliveryLabel when empty.
func (n Note) RedispatchLabel() string {
	if r := strings.TrimSpace(n.Redispatch); r != "" {
		return r
	}
	return DirectDeliveryLabel
}

// Header holds the fields that identify a load on screen and on paper.
type Header struct {
	Driver         string `json:"driver" yaml:"driver"`
	Plate          string `json:"plate" yaml:"plate"`
	Destination    string `json:"destination" yaml:"destination"`
	Date           string `json:"date" yaml:"date"`
	CollectionCode string `json:"collection_code" yaml:"collection_code"`
}
