// Package config resolves the loadboard configuration from viper: sheet
// location, column names, classification policy and output locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appName = "loadboard"

// ExpandPath expands a leading ~ and $VAR references in a configured path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return os.ExpandEnv(path)
}

// Dir is the directory holding config.yaml and the Sheets token, under
// $XDG_CONFIG_HOME or ~/.config.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// TokenFile is where the interactive Sheets authorization stores its token.
func TokenFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sheets-token.json"), nil
}
