package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/sheets"
)

// ReadSheetsConfig resolves the Google Sheets settings without validating
// them. Viper keys (config file or LOADBOARD_ env vars) win over the
// GOOGLE_SHEETS_* variables, which win over the defaults.
func ReadSheetsConfig(v *viper.Viper) sheets.Config {
	config := sheets.DefaultConfig()

	if s := v.GetString("sheets.service_account_path"); s != "" {
		config.ServiceAccountPath = ExpandPath(s)
	}
	config.ClientID = v.GetString("sheets.client_id")
	config.ClientSecret = v.GetString("sheets.client_secret")
	config.RefreshToken = v.GetString("sheets.refresh_token")
	config.TokenFile = ExpandPath(v.GetString("sheets.token_file"))
	config.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	config.Range = v.GetString("source.range")
	if n := v.GetInt("sheets.retry_attempts"); n > 0 {
		config.RetryAttempts = n
	}
	if d := v.GetDuration("sheets.retry_delay"); d > 0 {
		config.RetryDelay = d
	}

	if config.ServiceAccountPath == "" {
		if s := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); s != "" {
			config.ServiceAccountPath = ExpandPath(s)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.Range == "" {
		config.Range = os.Getenv("GOOGLE_SHEETS_RANGE")
	}
	return config
}

// LoadSheetsConfig resolves and validates the Google Sheets settings of the
// row source. Without an inline refresh token it falls back to the token
// stored by 'loadboard auth'.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := ReadSheetsConfig(v)

	if config.TokenFile == "" && config.RefreshToken == "" {
		if tokenFile, err := TokenFile(); err == nil {
			if _, statErr := os.Stat(tokenFile); statErr == nil {
				config.TokenFile = tokenFile
			}
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
