// Package sheets reads the loading sheet from Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/loadboard/internal/common"
)

// AuthMethod is how the reader authenticates to Google.
type AuthMethod string

// Authentication methods.
const (
	AuthServiceAccount AuthMethod = "service_account"
	AuthOAuth2         AuthMethod = "oauth2"
)

// Config locates the spreadsheet and holds its credentials. OAuth2 needs a
// refresh token, either inline or in the token file written by the
// interactive flow.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	// Range is an A1 range such as "Cargas!A:Z". Empty reads the first sheet.
	Range         string
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// AuthMethod reports which credentials Validate accepted.
func (c *Config) AuthMethod() AuthMethod {
	if c.ServiceAccountPath != "" {
		return AuthServiceAccount
	}
	return AuthOAuth2
}

// Validate checks that exactly one authentication method is configured
// and the spreadsheet is known. Errors match common.ErrMissingConfig or
// common.ErrInvalidConfig.
func (c *Config) Validate() error {
	hasClient := c.ClientID != "" && c.ClientSecret != ""
	hasOAuth := hasClient && (c.RefreshToken != "" || c.TokenFile != "")
	hasServiceAccount := c.ServiceAccountPath != ""

	var errs []error
	switch {
	case !hasOAuth && !hasServiceAccount:
		errs = append(errs, fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig))
	case hasServiceAccount && (hasClient || c.RefreshToken != ""):
		errs = append(errs, fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig))
	}

	if c.SpreadsheetID == "" {
		errs = append(errs, fmt.Errorf("%w: spreadsheet ID is required", common.ErrMissingConfig))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
