package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// Defaults of the interactive authorization.
const (
	DefaultCallbackAddr = "localhost:8080"
	DefaultAuthTimeout  = 5 * time.Minute
)

// OAuth2Config configures the interactive consent flow.
type OAuth2Config struct {
	// OpenURL, when set, is called with the consent URL.
	OpenURL      func(url string)
	ClientID     string
	ClientSecret string
	// TokenFile receives the token once consent is granted.
	TokenFile string
	// CallbackAddr is the local host:port Google redirects to.
	CallbackAddr string
	Timeout      time.Duration
}

func oauthEndpoint(clientID, clientSecret, redirect string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
	}
}

type callbackResult struct {
	err  error
	code string
}

// callbackHandler accepts one authorization code for the given state.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("authorization state mismatch")
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("no authorization code received")
		default:
			res.code = q.Get("code")
		}

		select {
		case results <- res:
		default:
		}

		if res.err != nil {
			http.Error(w, "Authentication failed: "+res.err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = fmt.Fprint(w, `<html><body>
			<h1>loadboard is authorized</h1>
			<p>You can close this window and return to the terminal.</p>
		</body></html>`)
	})
}

// AuthenticateOAuth2Interactive runs the consent flow: it serves a local
// callback, waits for Google's redirect and exchanges the code. The token
// is saved to config.TokenFile when one is set.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.CallbackAddr == "" {
		config.CallbackAddr = DefaultCallbackAddr
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultAuthTimeout
	}

	state := uuid.NewString()
	endpoint := oauthEndpoint(config.ClientID, config.ClientSecret, "http://"+config.CallbackAddr+"/callback")

	listener, err := net.Listen("tcp", config.CallbackAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, results))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("callback server failed: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := endpoint.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("Google Sheets authorization required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	if config.OpenURL != nil {
		config.OpenURL(authURL)
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(config.Timeout):
		return nil, fmt.Errorf("authentication timeout - no response received within %s", config.Timeout)
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := endpoint.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			slog.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			slog.Info("Token saved", "file", config.TokenFile)
		}
	}

	return token, nil
}

// LoadToken reads a token written by the interactive flow.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", tokenFile, err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("token %s has no refresh token", tokenFile)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// oauthToken is the token the reader starts from: the configured refresh
// token, or the one stored by the interactive flow.
func oauthToken(config Config) (*oauth2.Token, error) {
	if config.RefreshToken != "" {
		return &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}, nil
	}
	token, err := LoadToken(config.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("no refresh token configured and none stored; run 'loadboard auth': %w", err)
	}
	return token, nil
}
