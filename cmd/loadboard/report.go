package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/cli"
	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/pdf"
	"github.com/Veraticus/loadboard/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write conference documents as PDF",
		Long: `Generate the printable conference document of each load.

By default a document is written for every pending load. Use --index to
generate a single load regardless of its status.`,
		RunE: runReport,
	}

	cmd.Flags().IntSlice("index", nil, "Load indexes to render (default: all pending loads)")
	cmd.Flags().Bool("items", true, "Include the line-item table")
	cmd.Flags().StringP("out", "o", "", "Output directory (default: report.output_dir)")
	cmd.Flags().Bool("all", false, "Render completed loads as well")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("items") {
		items, _ := cmd.Flags().GetBool("items")
		viper.Set("report.include_items", items)
	}
	if cmd.Flags().Changed("out") {
		out, _ := cmd.Flags().GetString("out")
		viper.Set("report.output_dir", out)
	}

	// Set up interrupt handling; documents already written stay on disk.
	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interruptHandler.HandleInterrupts(cmd.Context())

	deps, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := deps.compute(ctx)
	if err != nil {
		return err
	}

	indexes, _ := cmd.Flags().GetIntSlice("index")
	all, _ := cmd.Flags().GetBool("all")
	loads, err := reportTargets(result, indexes, all)
	if err != nil {
		return err
	}
	for _, l := range result.Rejected() {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf("Skipping load %d: %v", l.Load.Index, l.Rejected)))
	}
	if len(loads) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No pending loads to render"))
		return nil
	}

	interruptHandler.Expect(len(loads))
	written, err := writeDocuments(ctx, cmd, pdf.NewRenderer(), deps.app.Report.OutputDir, loads, interruptHandler.Done)
	if interruptHandler.WasInterrupted() {
		return fmt.Errorf("interrupted after %d of %d documents", written, len(loads))
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d documents to %s", written, deps.app.Report.OutputDir)))
	return nil
}

// reportTargets picks the loads to render: the given indexes, or every
// pending load (every accepted load with all set) when none are given.
// Asking for a rejected load by index is an error.
func reportTargets(result *engine.Result, indexes []int, all bool) ([]engine.LoadResult, error) {
	if len(indexes) == 0 {
		if all {
			return result.Accepted(), nil
		}
		return result.Pending(), nil
	}

	loads := make([]engine.LoadResult, 0, len(indexes))
	for _, i := range indexes {
		l, err := result.Load(i)
		if err != nil {
			return nil, err
		}
		if l.Rejected != nil {
			return nil, common.NewUserError(fmt.Sprintf("load %d was rejected: fix its header cells in the sheet or disable report.strict_headers", i), l.Rejected)
		}
		loads = append(loads, *l)
	}
	return loads, nil
}

// writeDocuments renders each load into dir and returns how many files
// were written. Rejected loads are skipped. written, when set, is called
// after each file.
func writeDocuments(ctx context.Context, cmd *cobra.Command, renderer service.DocumentRenderer, dir string, loads []engine.LoadResult, written func()) (int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), len(loads), "Rendering documents")
	defer progress.Finish()

	n := 0
	for _, l := range loads {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		if l.Rejected != nil {
			slog.Warn("skipping rejected load", "load", l.Load.Index, "error", l.Rejected)
			progress.Step()
			continue
		}

		out, err := renderer.Render(l.Document)
		if err != nil {
			return n, fmt.Errorf("failed to render load %d: %w", l.Load.Index, err)
		}

		path := filepath.Join(dir, l.Document.Filename(renderer.Extension()))
		if err := os.WriteFile(path, out, 0600); err != nil {
			return n, fmt.Errorf("failed to write %s: %w", path, err)
		}
		slog.Debug("wrote document", "load", l.Load.Index, "path", path)

		n++
		if written != nil {
			written()
		}
		progress.Step()
	}
	return n, nil
}
