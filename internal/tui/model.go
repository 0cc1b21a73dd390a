// Package tui is an interactive browser for the loads of a loading sheet.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/tui/themes"
)

// Tab is one of the browser's views.
type Tab int

// Tabs, in display order.
const (
	TabPending Tab = iota
	TabCompleted
	TabDashboard
)

var tabTitles = []string{"Pendentes", "Finalizados", "Dashboard"}

func (t Tab) String() string {
	return tabTitles[t]
}

// Model holds the main TUI state.
type Model struct {
	theme     themes.Theme
	lastError error
	result    *engine.Result
	detail    *engine.LoadResult
	help      help.Model
	keymap    KeyMap
	rows      []engine.LoadResult
	table     table.Model
	config    Config
	width     int
	height    int
	tab       Tab
	ready     bool
	quitting  bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	t := table.New(
		table.WithColumns(loadColumns()),
		table.WithFocused(true),
		table.WithHeight(max(cfg.Height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cfg.Theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = cfg.Theme.Selected
	t.SetStyles(s)

	return Model{
		config: cfg,
		theme:  cfg.Theme,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		table:  t,
		width:  cfg.Width,
		height: cfg.Height,
		tab:    TabPending,
	}
}

func loadColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Motorista", Width: 18},
		{Title: "Placa", Width: 9},
		{Title: "Destino", Width: 18},
		{Title: "Data", Width: 10},
		{Title: "Notas", Width: 5},
		{Title: "Cubagem", Width: 9},
		{Title: "KIT", Width: 8},
		{Title: "MIX", Width: 8},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.fetchLoads()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(m.height-8, 3))
		return m, nil

	case loadsLoadedMsg:
		m.ready = true
		next := refreshAfter(m.config.AutoRefresh)
		if msg.err != nil {
			m.lastError = msg.err
			return m, next
		}
		m.lastError = nil
		m.result = msg.result
		m.detail = nil
		m.refreshRows()
		return m, next

	case refreshRequestMsg:
		return m, m.fetchLoads()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.fetchLoads()
	}

	if m.detail != nil {
		if key.Matches(msg, m.keymap.Back) {
			m.detail = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
		m.refreshRows()
		return m, nil

	case key.Matches(msg, m.keymap.Select):
		if m.tab != TabDashboard {
			if i := m.table.Cursor(); i >= 0 && i < len(m.rows) {
				selected := m.rows[i]
				m.detail = &selected
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// refreshRows fills the table with the loads of the current tab.
func (m *Model) refreshRows() {
	m.rows = nil
	if m.result != nil {
		switch m.tab {
		case TabPending:
			m.rows = m.result.Pending()
		case TabCompleted:
			m.rows = m.result.Completed()
		}
	}

	rows := make([]table.Row, len(m.rows))
	for i, l := range m.rows {
		h := l.Summary.Header
		rows[i] = table.Row{
			fmt.Sprintf("%d", l.Load.Index),
			h.Driver,
			h.Plate,
			h.Destination,
			h.Date,
			fmt.Sprintf("%d", l.Summary.Aggregate.NoteCount),
			fmt.Sprintf("%.2f", l.Summary.Aggregate.Cubage),
			fmt.Sprintf("%.2f", l.Allocation.Kit),
			fmt.Sprintf("%.2f", l.Allocation.Mix),
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}
