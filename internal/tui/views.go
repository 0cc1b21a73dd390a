package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loadboard/internal/cli"
	"github.com/Veraticus/loadboard/internal/report"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.theme.Subtle.Render("Lendo planilha de carregamento...")
	}

	var body string
	switch {
	case m.detail != nil:
		body = m.renderDetail()
	case m.tab == TabDashboard:
		body = m.renderDashboard()
	default:
		body = m.renderList()
	}

	parts := []string{m.renderTabs(), body}
	if m.lastError != nil {
		parts = append(parts, m.theme.StatusError.Render("Erro: "+m.lastError.Error()))
	}
	parts = append(parts, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if Tab(i) == m.tab {
			tabs[i] = m.theme.ActiveTab.Render(title)
		} else {
			tabs[i] = m.theme.InactiveTab.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) renderList() string {
	if len(m.rows) == 0 {
		return m.theme.Subtle.Render("Nenhuma carga.")
	}
	return m.theme.BorderedBox.Render(m.table.View())
}

func (m Model) renderDashboard() string {
	if m.result == nil {
		return m.theme.Subtle.Render("Nenhuma carga.")
	}
	return m.theme.BorderedBox.Render(cli.RenderCategories(m.result.Dashboard()))
}

// renderDetail shows the selected load and its notes.
func (m Model) renderDetail() string {
	doc := m.detail.Document
	content := cli.RenderLoad(*m.detail)
	if !doc.HasItems() {
		return content
	}

	widths := make([]int, len(doc.Columns))
	for i, c := range doc.Columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, item := range doc.Items {
		for i, c := range item.Cells() {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	var b strings.Builder
	b.WriteString(m.theme.Bold.Render(itemLine(doc.Columns, widths)))
	for _, item := range doc.Items {
		b.WriteByte('\n')
		b.WriteString(itemLine(item.Cells(), widths))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		m.theme.Title.Render(report.Title),
		m.theme.BorderedBox.Render(b.String()),
	)
}

func itemLine(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
	}
	return strings.Join(out, "  ")
}
