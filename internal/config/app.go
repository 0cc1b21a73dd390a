package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/classification"
	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/model"
)

// Source kinds.
const (
	SourceSheets   = "sheets"
	SourceXLSX     = "xlsx"
	SourceSnapshot = "snapshot"
)

// App is the resolved application configuration.
type App struct {
	Columns        map[model.Field]string
	Source         SourceConfig
	XLSX           XLSXConfig
	Classification ClassificationConfig
	Report         ReportConfig
	Database       DatabaseConfig
	Server         ServerConfig
	Workers        int `validate:"gte=0"`
}

// SourceConfig selects where the loading sheet is read from.
type SourceConfig struct {
	Kind  string `validate:"required,oneof=sheets xlsx snapshot"`
	Range string
	// Record stores every live fetch as a snapshot.
	Record bool
}

// XLSXConfig locates a local workbook.
type XLSXConfig struct {
	Path  string `validate:"required_if=Enabled true"`
	Sheet string
	// Enabled is set when the xlsx source is selected.
	Enabled bool
}

// ClassificationConfig controls note classification.
type ClassificationConfig struct {
	RedispatchPolicy string `validate:"omitempty,oneof=literal generic"`
	// Policy is resolved from RedispatchPolicy once at load time.
	Policy classification.RedispatchPolicy `validate:"-"`
}

// ReportConfig controls document generation.
type ReportConfig struct {
	OutputDir     string `validate:"required"`
	IncludeItems  bool
	StrictHeaders bool
}

// DatabaseConfig locates the snapshot database.
type DatabaseConfig struct {
	Path string `validate:"required"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `validate:"required"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("source.kind", SourceSheets)
	v.SetDefault("classification.redispatch_policy", string(classification.RedispatchGeneric))
	v.SetDefault("report.include_items", true)
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.strict_headers", false)
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "loadboard", "loadboard.db"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("engine.workers", runtime.GOMAXPROCS(0))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates the application configuration from v.
func Load(v *viper.Viper) (*App, error) {
	app := &App{
		Source: SourceConfig{
			Kind:   strings.ToLower(strings.TrimSpace(v.GetString("source.kind"))),
			Range:  v.GetString("source.range"),
			Record: v.GetBool("source.record"),
		},
		XLSX: XLSXConfig{
			Path:  ExpandPath(v.GetString("xlsx.path")),
			Sheet: v.GetString("xlsx.sheet"),
		},
		Classification: ClassificationConfig{
			RedispatchPolicy: strings.ToLower(strings.TrimSpace(v.GetString("classification.redispatch_policy"))),
		},
		Report: ReportConfig{
			OutputDir:     ExpandPath(v.GetString("report.output_dir")),
			IncludeItems:  v.GetBool("report.include_items"),
			StrictHeaders: v.GetBool("report.strict_headers"),
		},
		Database: DatabaseConfig{Path: ExpandPath(v.GetString("database.path"))},
		Server:   ServerConfig{Addr: v.GetString("server.addr")},
		Workers:  v.GetInt("engine.workers"),
	}
	app.XLSX.Enabled = app.Source.Kind == SourceXLSX

	columns, err := parseColumns(v.GetStringMapString("columns"))
	if err != nil {
		return nil, err
	}
	app.Columns = columns

	if err := app.Validate(); err != nil {
		return nil, err
	}

	policy, err := classification.ParseRedispatchPolicy(app.Classification.RedispatchPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	app.Classification.Policy = policy

	return app, nil
}

// Validate checks struct constraints and reports every violation.
func (a *App) Validate() error {
	err := validator.New().Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// EngineConfig derives the engine options from the application config.
func (a *App) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Columns = a.Columns
	cfg.Policy = a.Classification.Policy
	cfg.IncludeItems = a.Report.IncludeItems
	cfg.StrictHeaders = a.Report.StrictHeaders
	if a.Workers > 0 {
		cfg.Workers = a.Workers
	}
	return cfg
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "App."))
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// parseColumns maps columns.<field> overrides onto known fields.
func parseColumns(raw map[string]string) (map[model.Field]string, error) {
	known := make(map[model.Field]bool, len(model.RequiredFields))
	for _, f := range model.RequiredFields {
		known[f] = true
	}

	columns := make(map[model.Field]string, len(raw))
	for k, name := range raw {
		f := model.Field(strings.ToLower(k))
		if !known[f] {
			return nil, fmt.Errorf("%w: unknown column field %q", common.ErrInvalidConfig, k)
		}
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: column %q has an empty header name", common.ErrInvalidConfig, k)
		}
		columns[f] = name
	}
	return columns, nil
}
