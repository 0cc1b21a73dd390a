package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/cli"
	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/config"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store the current sheet for offline runs",
		Long: `Fetch the loading sheet from the configured live source and store the raw
rows in the local database. Later runs can use --source snapshot to work
from the latest stored copy without network access.`,
		RunE: runSnapshot,
	}

	cmd.Flags().Int("keep", 0, "Keep only the N most recent snapshots (0 keeps all)")

	cmd.AddCommand(snapshotListCmd())

	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	keep, _ := cmd.Flags().GetInt("keep")

	if viper.GetString("source.kind") == config.SourceSnapshot {
		return common.NewUserError("snapshot needs a live source; use --source sheets or --source xlsx", nil)
	}
	// The explicit save below replaces the recording wrapper.
	viper.Set("source.record", false)

	deps, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	table, err := deps.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", deps.source.Name(), err)
	}

	store, err := deps.openStore(ctx)
	if err != nil {
		return err
	}

	snap, err := store.SaveSnapshot(ctx, deps.source.Name(), table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Stored snapshot %d (%d rows from %s)", snap.ID, len(table.Rows), snap.Source)))

	if keep > 0 {
		removed, err := store.PruneSnapshots(ctx, keep)
		if err != nil {
			return err
		}
		if removed > 0 {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Removed %d old snapshots", removed)))
		}
	}
	return nil
}

func snapshotListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			app, err := loadApp()
			if err != nil {
				return err
			}
			deps := &runtimeDeps{app: app, logger: slog.Default()}
			defer deps.Close()

			store, err := deps.openStore(ctx)
			if err != nil {
				return err
			}

			snaps, err := store.ListSnapshots(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No snapshots stored"))
				return nil
			}
			for _, s := range snaps {
				fmt.Fprintf(out, "%4d  %s  %s\n", s.ID, s.FetchedAt.Local().Format("2006-01-02 15:04:05"), s.Source)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum snapshots to list (0 lists all)")

	return cmd
}
