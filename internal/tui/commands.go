package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// fetchLoads re-reads the sheet and recomputes every load.
func (m Model) fetchLoads() tea.Cmd {
	loader := m.config.Loader
	timeout := m.config.FetchTimeout
	return func() tea.Msg {
		if loader == nil {
			return loadsLoadedMsg{err: fmt.Errorf("no load source configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := loader(ctx)
		return loadsLoadedMsg{result: result, err: err}
	}
}

func refreshAfter(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshRequestMsg{}
	})
}
