package tui

import "github.com/Veraticus/loadboard/internal/engine"

// Data loading messages.
type loadsLoadedMsg struct {
	result *engine.Result
	err    error
}

type refreshRequestMsg struct{}
