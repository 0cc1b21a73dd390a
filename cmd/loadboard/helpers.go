package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/config"
	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/metrics"
	"github.com/Veraticus/loadboard/internal/numeric"
	"github.com/Veraticus/loadboard/internal/service"
	"github.com/Veraticus/loadboard/internal/sheets"
	"github.com/Veraticus/loadboard/internal/storage"
	"github.com/Veraticus/loadboard/internal/xlsx"
)

// runtimeDeps are the pieces every data command needs.
type runtimeDeps struct {
	app     *config.App
	source  service.RowSource
	engine  *engine.Engine
	metrics *metrics.Metrics
	store   *storage.SQLiteStorage
	logger  *slog.Logger
}

func (d *runtimeDeps) Close() {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Warn("failed to close database", "error", err)
		}
	}
}

// loadApp reads and validates the application configuration.
func loadApp() (*config.App, error) {
	app, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return app, nil
}

// initDeps resolves configuration, opens the row source and builds the
// engine. The returned deps must be closed.
func initDeps(ctx context.Context) (*runtimeDeps, error) {
	app, err := loadApp()
	if err != nil {
		return nil, err
	}

	d := &runtimeDeps{
		app:     app,
		metrics: metrics.New(),
		logger:  slog.Default(),
	}

	source, err := d.openSource(ctx)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.source = source

	normalizer := numeric.NewNormalizer(d.logger, d.metrics)
	d.engine = engine.New(app.EngineConfig(), normalizer, d.logger)
	return d, nil
}

// openSource builds the configured row source. Live sources are wrapped so
// that each fetch is snapshotted when source.record is set.
func (d *runtimeDeps) openSource(ctx context.Context) (service.RowSource, error) {
	var live service.RowSource

	switch d.app.Source.Kind {
	case config.SourceSnapshot:
		store, err := d.openStore(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewSnapshotSource(store), nil

	case config.SourceXLSX:
		r, err := xlsx.NewReader(d.app.XLSX.Path, d.app.XLSX.Sheet, d.logger)
		if err != nil {
			return nil, err
		}
		live = r

	default:
		sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return nil, common.NewUserError("Google Sheets is not configured; run 'loadboard auth'", err)
		}
		r, err := sheets.NewReader(ctx, *sheetsConfig, d.logger)
		if err != nil {
			return nil, err
		}
		live = r
	}

	if !d.app.Source.Record {
		return live, nil
	}
	store, err := d.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewRecordingSource(live, store), nil
}

func (d *runtimeDeps) openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	if d.store != nil {
		return d.store, nil
	}
	store, err := storage.Open(ctx, d.app.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	d.store = store
	return store, nil
}

// compute fetches the sheet and processes every load.
func (d *runtimeDeps) compute(ctx context.Context) (*engine.Result, error) {
	start := time.Now()

	table, err := d.source.Fetch(ctx)
	if err != nil {
		d.metrics.ObserveRun(time.Since(start), err)
		return nil, fmt.Errorf("failed to read %s: %w", d.source.Name(), err)
	}

	result, err := d.engine.Process(ctx, table)
	d.metrics.ObserveRun(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	d.logger.Info("computed loads",
		"source", d.source.Name(),
		"loads", len(result.Loads),
		"pending", len(result.Pending()))
	return result, nil
}
