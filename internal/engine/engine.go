// Package engine reconstructs loads from a loading sheet and computes their
// totals, KIT/MIX allocation and conference documents.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/loadboard/internal/classification"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/numeric"
	"github.com/Veraticus/loadboard/internal/report"
	"github.com/Veraticus/loadboard/internal/segment"
)

// Config holds the options of an Engine.
type Config struct {
	Columns       map[model.Field]string
	Policy        classification.RedispatchPolicy
	Workers       int
	IncludeItems  bool
	StrictHeaders bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Policy:  classification.RedispatchGeneric,
		Workers: runtime.GOMAXPROCS(0),
	}
}

// LoadResult is everything computed for one load.
type LoadResult struct {
	Load       model.Load
	Key        string
	Summary    Summary
	Allocation model.Allocation
	Document   report.Document
	Mismatches []HeaderMismatch
	// Rejected is set in strict header mode when the notes of the load
	// disagree. Rejected loads stay in Result.Loads but are left out of the
	// status views, the category series and document rendering.
	Rejected *HeaderMismatchError
}

// Engine turns raw sheet tables into load results.
type Engine struct {
	aggregator *Aggregator
	logger     *slog.Logger
	config     Config
}

// New creates an engine. The normalizer may carry a parse-failure recorder.
func New(config Config, normalizer *numeric.Normalizer, logger *slog.Logger) *Engine {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := classification.NewRouter(config.Policy)
	return &Engine{
		aggregator: NewAggregator(router, normalizer, config.Columns),
		logger:     logger,
		config:     config,
	}
}

// Process reconstructs the loads of a table and computes each of them.
// Loads are computed concurrently; the result keeps sheet order.
func (e *Engine) Process(ctx context.Context, table *model.Table) (*Result, error) {
	start := time.Now()

	loads, err := segment.Loads(table, e.config.Columns)
	if err != nil {
		return nil, err
	}

	results := make([]LoadResult, len(loads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for i, load := range loads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.computeLoad(load)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute loads: %w", err)
	}

	result := newResult(results)

	e.logger.Debug("processed loading sheet",
		"rows", len(table.Rows),
		"loads", len(results),
		"notes", result.Totals.NoteCount,
		"rejected", len(result.Rejected()),
		"duration", time.Since(start))

	return result, nil
}

// Compute runs a single load through aggregation, allocation and the
// document builder.
func (e *Engine) Compute(load model.Load) (LoadResult, error) {
	return e.computeLoad(load)
}

func (e *Engine) computeLoad(load model.Load) (LoadResult, error) {
	if len(load.Notes) == 0 {
		return LoadResult{}, fmt.Errorf("load %d has no notes", load.Index)
	}

	mismatches := CheckHeaders(load)
	var rejected *HeaderMismatchError
	if len(mismatches) > 0 && e.config.StrictHeaders {
		rejected = &HeaderMismatchError{LoadIndex: load.Index, Mismatches: mismatches}
		e.logger.Warn("load rejected", "load", load.Index, "error", rejected)
	} else {
		for _, m := range mismatches {
			e.logger.Warn("note disagrees with load header",
				"load", load.Index,
				"row", m.Row,
				"field", m.Field,
				"expected", m.Want,
				"got", m.Got)
		}
	}

	summary := e.aggregator.Summarize(load)
	allocation := Allocate(summary.Aggregate.Cubage)

	doc := report.Build(report.Input{
		Load:       load,
		Status:     summary.Status,
		Aggregate:  summary.Aggregate,
		Allocation: allocation,
		NoteCubage: summary.NoteCubage(),
	}, report.Options{IncludeItems: e.config.IncludeItems})

	return LoadResult{
		Load:       load,
		Key:        doc.Key,
		Summary:    summary,
		Allocation: allocation,
		Document:   doc,
		Mismatches: mismatches,
		Rejected:   rejected,
	}, nil
}
