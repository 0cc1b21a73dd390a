package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/report"
)

// exportLoad is the serialized form of one computed load.
type exportLoad struct {
	Key        string           `json:"key" yaml:"key"`
	Status     model.Status     `json:"status" yaml:"status"`
	Category   string           `json:"category" yaml:"category"`
	Header     model.Header     `json:"header" yaml:"header"`
	Document   *report.Document `json:"document,omitempty" yaml:"document,omitempty"`
	Rejected   string           `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Aggregate  model.Aggregate  `json:"aggregate" yaml:"aggregate"`
	Allocation model.Allocation `json:"allocation" yaml:"allocation"`
	Index      int              `json:"index" yaml:"index"`
}

// exportPayload is the full export document.
type exportPayload struct {
	Loads     []exportLoad     `json:"loads" yaml:"loads"`
	Dashboard engine.Dashboard `json:"dashboard" yaml:"dashboard"`
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export computed loads as JSON or YAML",
		RunE:  runExport,
	}

	cmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	cmd.Flags().Bool("documents", false, "Include the conference document of each load")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	withDocs, _ := cmd.Flags().GetBool("documents")

	deps, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := deps.compute(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				deps.logger.Warn("failed to close export file", "error", cerr)
			}
		}()
		w = f
	}

	return encodeExport(w, format, newExportPayload(result, withDocs))
}

func newExportPayload(result *engine.Result, withDocs bool) exportPayload {
	p := exportPayload{
		Loads:     make([]exportLoad, len(result.Loads)),
		Dashboard: result.Dashboard(),
	}
	for i, l := range result.Loads {
		el := exportLoad{
			Index:      l.Load.Index,
			Key:        l.Key,
			Status:     l.Summary.Status,
			Category:   l.Summary.Category,
			Header:     l.Summary.Header,
			Aggregate:  l.Summary.Aggregate,
			Allocation: l.Allocation,
		}
		if l.Rejected != nil {
			el.Rejected = l.Rejected.Error()
		}
		if withDocs {
			doc := l.Document
			el.Document = &doc
		}
		p.Loads[i] = el
	}
	return p
}

func encodeExport(w io.Writer, format string, payload exportPayload) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", format)
	}
}
