// Package pdf prints load conference documents as A4 PDF sheets.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Veraticus/loadboard/internal/report"
)

// itemWidths are grid widths for report.ItemColumns; they sum to 12.
var itemWidths = []int{3, 2, 1, 1, 1, 2, 2}

var (
	gray      = &props.Color{Red: 100, Green: 100, Blue: 100}
	headerBg  = &props.Color{Red: 230, Green: 230, Blue: 230}
	gridCell  = &props.Cell{BorderType: border.Full, BorderColor: gray, BorderThickness: 0.2}
	headerRow = &props.Cell{BorderType: border.Full, BorderColor: gray, BorderThickness: 0.2, BackgroundColor: headerBg}
)

// Renderer implements service.DocumentRenderer.
type Renderer struct {
	margin float64
}

// NewRenderer creates a PDF renderer with 5mm margins.
func NewRenderer() *Renderer {
	return &Renderer{margin: 5}
}

// Extension implements service.DocumentRenderer.
func (r *Renderer) Extension() string {
	return "pdf"
}

// Render implements service.DocumentRenderer.
func (r *Renderer) Render(doc report.Document) ([]byte, error) {
	if len(doc.Columns) > 0 && len(doc.Columns) != len(itemWidths) {
		return nil, fmt.Errorf("unsupported item layout: %d columns", len(doc.Columns))
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(r.margin).
		WithTopMargin(r.margin).
		WithRightMargin(r.margin).
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   gray,
		}).
		Build()

	m := maroto.New(cfg)

	addTitle(m, doc)
	addHeader(m, doc)
	if doc.HasItems() {
		addItems(m, doc)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate load %d PDF: %w", doc.Index, err)
	}
	return out.GetBytes(), nil
}

func addTitle(m core.Maroto, doc report.Document) {
	m.AddRows(
		row.New(12).Add(
			col.New(9).Add(text.New(doc.Title, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(3).Add(text.New(string(doc.Status), props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: gray,
			})),
		),
	)
	m.AddRows(row.New(3))
}

// addHeader lays the header fields out two per row.
func addHeader(m core.Maroto, doc report.Document) {
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Left: 1, Top: 1.5}
	valueStyle := props.Text{Size: 9, Align: align.Left, Left: 1, Top: 1.5}

	for i := 0; i < len(doc.Header); i += 2 {
		cols := make([]core.Col, 0, 4)
		for _, f := range doc.Header[i:min(i+2, len(doc.Header))] {
			cols = append(cols,
				col.New(2).Add(text.New(f.Label, labelStyle)).WithStyle(headerRow),
				col.New(4).Add(text.New(f.Value, valueStyle)).WithStyle(gridCell),
			)
		}
		m.AddRows(row.New(7).Add(cols...))
	}
	m.AddRows(row.New(5))
}

func addItems(m core.Maroto, doc report.Document) {
	headText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Top: 1.5}
	cellText := props.Text{Size: 8, Align: align.Center, Top: 1.5}

	heads := make([]core.Col, len(doc.Columns))
	for i, name := range doc.Columns {
		heads[i] = col.New(itemWidths[i]).Add(text.New(name, headText)).WithStyle(headerRow)
	}
	m.AddRows(row.New(7).Add(heads...))

	for _, item := range doc.Items {
		cells := item.Cells()
		cols := make([]core.Col, len(cells))
		for i, v := range cells {
			cols[i] = col.New(itemWidths[i]).Add(text.New(v, cellText)).WithStyle(gridCell)
		}
		m.AddRows(row.New(7).Add(cols...))
	}
}
