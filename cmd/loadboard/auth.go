package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/cli"
	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/config"
	"github.com/Veraticus/loadboard/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Run the OAuth2 consent flow for Google Sheets. The token is stored in the
token file (sheets.token_file, or sheets-token.json in the config directory),
where the sheets source picks it up. Client credentials passed as flags are
saved to the config file.

Service accounts need no interactive authentication; set
sheets.service_account_path instead.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 client ID")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret")
	cmd.Flags().Bool("no-browser", false, "Print the consent URL without opening a browser")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	settings, save, err := authSettings(cmd, viper.GetViper())
	if err != nil {
		return err
	}

	oauthConfig := sheets.OAuth2Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		TokenFile:    settings.TokenFile,
		OpenURL:      openBrowser,
	}
	if noBrowser, _ := cmd.Flags().GetBool("no-browser"); noBrowser {
		oauthConfig.OpenURL = nil
	}

	if _, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), oauthConfig); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess("Token stored in "+settings.TokenFile))

	if save {
		if err := saveConfig(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Could not update the config file: "+err.Error()))
		}
	}

	fmt.Fprintln(out, cli.FormatInfo("Run 'loadboard summary' to read the loading sheet."))
	return nil
}

// authSettings resolves the client credentials and token file for the
// consent flow. Flags override the config. save reports whether v was
// changed and should be written back: flag credentials are kept, and an
// inline refresh token is cleared so the new token file takes effect.
func authSettings(cmd *cobra.Command, v *viper.Viper) (settings sheets.Config, save bool, err error) {
	settings = config.ReadSheetsConfig(v)

	if id, _ := cmd.Flags().GetString("client-id"); id != "" {
		settings.ClientID = id
		v.Set("sheets.client_id", id)
		save = true
	}
	if secret, _ := cmd.Flags().GetString("client-secret"); secret != "" {
		settings.ClientSecret = secret
		v.Set("sheets.client_secret", secret)
		save = true
	}
	if settings.ClientID == "" || settings.ClientSecret == "" {
		return settings, false, common.NewUserError(
			"set sheets.client_id and sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID and GOOGLE_SHEETS_CLIENT_SECRET), or pass --client-id and --client-secret",
			fmt.Errorf("oauth2 client credentials: %w", common.ErrMissingConfig))
	}

	if v.GetString("sheets.refresh_token") != "" {
		v.Set("sheets.refresh_token", "")
		save = true
	}

	if settings.TokenFile == "" {
		if settings.TokenFile, err = config.TokenFile(); err != nil {
			return settings, false, err
		}
	}
	return settings, save, nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(dir, "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}
	return viper.WriteConfigAs(configFile)
}

// openBrowser opens url with the platform's default handler.
func openBrowser(url string) {
	var name string
	var args []string
	switch runtime.GOOS {
	case "linux":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		name, args = "open", []string{url}
	default:
		return
	}
	if err := exec.Command(name, args...).Start(); err != nil { //nolint:gosec
		slog.Debug("failed to open browser", "error", err)
	}
}
