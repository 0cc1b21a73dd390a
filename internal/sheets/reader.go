package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/service"
)

// Reader implements service.RowSource for Google Sheets.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a new Google Sheets row source.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Reader{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Name identifies the spreadsheet in logs and snapshots.
func (r *Reader) Name() string {
	return "sheets:" + r.config.SpreadsheetID
}

// Fetch reads the configured range with formatted values, so numbers keep
// the sheet's locale formatting.
func (r *Reader) Fetch(ctx context.Context) (*model.Table, error) {
	retryOpts := service.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var readRange string
	err := common.WithRetry(ctx, func() error {
		var rangeErr error
		readRange, rangeErr = r.resolveRange(ctx)
		return classifyAPIError(rangeErr)
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve range: %w", err)
	}

	var resp *sheets.ValueRange
	err = common.WithRetry(ctx, func() error {
		var getErr error
		resp, getErr = r.service.Spreadsheets.Values.Get(r.config.SpreadsheetID, readRange).
			ValueRenderOption("FORMATTED_VALUE").
			MajorDimension("ROWS").
			Context(ctx).
			Do()
		return classifyAPIError(getErr)
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", readRange, err)
	}

	table, err := TableFromValues(resp.Values)
	if err != nil {
		return nil, err
	}

	r.logger.Info("read loading sheet",
		"spreadsheet_id", r.config.SpreadsheetID,
		"range", readRange,
		"rows", len(table.Rows))

	return table, nil
}

// resolveRange returns the configured range, or the title of the first
// sheet when none is configured.
func (r *Reader) resolveRange(ctx context.Context) (string, error) {
	if r.config.Range != "" {
		return r.config.Range, nil
	}

	ss, err := r.service.Spreadsheets.Get(r.config.SpreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", r.config.SpreadsheetID)
	}

	return quoteSheetTitle(ss.Sheets[0].Properties.Title), nil
}

func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// classifyAPIError marks client errors as permanent so they are not retried.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", common.ErrSourceRateLimit, err)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return common.Permanent(err)
		}
	}
	return err
}

// TableFromValues converts a Sheets API value grid into a table. The first
// row is the header; every data row is padded to the header width because
// the API omits trailing empty cells.
func TableFromValues(values [][]interface{}) (*model.Table, error) {
	if len(values) == 0 {
		return nil, common.ErrNoData
	}

	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = cellString(v)
	}

	rows := make([][]string, len(values)-1)
	for i, raw := range values[1:] {
		width := len(header)
		if len(raw) > width {
			width = len(raw)
		}
		row := make([]string, width)
		for j, v := range raw {
			row[j] = cellString(v)
		}
		rows[i] = row
	}

	return &model.Table{Header: header, Rows: rows}, nil
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

// createSheetsService creates a read-only Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token, err := oauthToken(config)
		if err != nil {
			return nil, err
		}
		tokenSource = oauthEndpoint(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}
