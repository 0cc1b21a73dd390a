package tui

import (
	"context"
	"time"

	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/tui/themes"
)

// Loader fetches the sheet and computes its loads.
type Loader func(ctx context.Context) (*engine.Result, error)

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Loader       Loader
	Width        int
	Height       int
	FetchTimeout time.Duration
	// AutoRefresh re-fetches the sheet periodically; zero disables it.
	AutoRefresh time.Duration
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Width:        100,
		Height:       30,
		FetchTimeout: 30 * time.Second,
	}
}

// WithLoader sets the function that produces load results.
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.Loader = loader
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAutoRefresh re-fetches the sheet at the given interval.
func WithAutoRefresh(every time.Duration) Option {
	return func(c *Config) {
		c.AutoRefresh = every
	}
}
