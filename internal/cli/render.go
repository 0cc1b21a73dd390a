package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/model"
)

// StatusBadge renders a load status in its color.
func StatusBadge(s model.Status) string {
	if s.IsCompleted() {
		return CompletedStyle.Render(SuccessIcon + " " + string(s))
	}
	return PendingStyle.Render(TruckIcon + " " + string(s))
}

// RenderLoad renders one load as a box with its header, totals and
// allocation. A rejected load shows the header disagreement instead of
// its status.
func RenderLoad(l engine.LoadResult) string {
	var b strings.Builder
	for _, f := range l.Document.Header {
		b.WriteString(LabelStyle.Render(f.Label))
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	b.WriteString(LabelStyle.Render("Notas"))
	fmt.Fprintf(&b, "%d\n", l.Summary.Aggregate.NoteCount)
	b.WriteString(LabelStyle.Render("Categoria"))
	b.WriteString(l.Summary.Category)
	b.WriteByte('\n')
	b.WriteString(SubtleStyle.Render(l.Key))

	badge := StatusBadge(l.Summary.Status)
	if l.Rejected != nil {
		badge = ErrorStyle.Render(ErrorIcon + " REJEITADA")
		b.WriteByte('\n')
		b.WriteString(ErrorStyle.Render(l.Rejected.Error()))
	}
	title := fmt.Sprintf("Carga %d  %s", l.Load.Index, badge)
	return RenderBox(title, b.String())
}

// RenderCategories renders the per-category series as an aligned table.
func RenderCategories(d engine.Dashboard) string {
	if len(d.Categories) == 0 {
		return SubtleStyle.Render("Nenhuma carga pendente.")
	}

	headers := []string{"Categoria", "Cubagem", "Peso (Kg)", "Volumes", "Notas"}
	rows := make([][]string, 0, len(d.Categories)+1)
	for _, c := range d.Categories {
		rows = append(rows, categoryRow(c.Category, c.Aggregate))
	}
	rows = append(rows, categoryRow("TOTAL", d.Totals))

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	var b strings.Builder
	b.WriteString(renderRow(headers, widths, TableHeaderStyle))
	b.WriteByte('\n')
	for i, r := range rows {
		style := TableCellStyle
		if i == len(rows)-1 {
			style = style.Bold(true)
		}
		b.WriteString(renderRow(r, widths, style))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryRow(name string, a model.Aggregate) []string {
	return []string{
		name,
		fmt.Sprintf("%.2f", a.Cubage),
		fmt.Sprintf("%.2f", a.Weight),
		fmt.Sprintf("%.0f", a.Volumes),
		fmt.Sprintf("%d", a.NoteCount),
	}
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = style.Width(widths[i] + 2).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}
