package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loadboard/internal/cli"
	"github.com/Veraticus/loadboard/internal/engine"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show every load with its totals and the category series",
		Long: `Read the loading sheet, rebuild the loads and print each one with its
header, totals and KIT/MIX allocation, followed by the per-category series
of the pending loads.`,
		RunE: runSummary,
	}

	cmd.Flags().String("status", "all", "Loads to list (pending, completed, all)")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetString("status")

	deps, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := deps.compute(ctx)
	if err != nil {
		return err
	}

	loads, err := selectLoads(result, status)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Loads) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No loads found in "+deps.source.Name()))
		return nil
	}

	for _, l := range loads {
		fmt.Fprintln(out, cli.RenderLoad(l))
	}

	fmt.Fprintln(out, cli.FormatTitle("Categorias (pendentes)"))
	fmt.Fprintln(out, cli.RenderCategories(result.Dashboard()))
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d loads: %d pending, %d completed, %d rejected",
		len(result.Loads), len(result.Pending()), len(result.Completed()), len(result.Rejected()))))
	return nil
}

// selectLoads filters a result by a status flag value.
func selectLoads(result *engine.Result, status string) ([]engine.LoadResult, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "all":
		return result.Loads, nil
	case "pending":
		return result.Pending(), nil
	case "completed":
		return result.Completed(), nil
	default:
		return nil, fmt.Errorf("unknown status %q (want pending, completed or all)", status)
	}
}
