package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loadboard/internal/tui"
	"github.com/Veraticus/loadboard/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse loads interactively",
		Long: `Open the terminal load browser with tabs for pending loads, completed
loads and the category dashboard. Press r to refresh from the source.`,
		RunE: runBrowse,
	}

	cmd.Flags().Duration("refresh", 0, "Refresh automatically at this interval (0 disables)")
	cmd.Flags().Bool("no-color", os.Getenv("NO_COLOR") != "", "Use the monochrome theme")

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	every, _ := cmd.Flags().GetDuration("refresh")
	noColor, _ := cmd.Flags().GetBool("no-color")

	deps, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	opts := []tui.Option{tui.WithLoader(deps.compute)}
	if every > 0 {
		opts = append(opts, tui.WithAutoRefresh(every))
	}
	if noColor {
		opts = append(opts, tui.WithTheme(themes.Mono))
	}
	return tui.Run(ctx, opts...)
}
