package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/loadboard/internal/api"
	"github.com/Veraticus/loadboard/internal/pdf"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve loads, categories and documents over HTTP",
		Long: `Start the read-only JSON API. Every request reads the sheet again, so the
answers follow the sheet as it is edited. Prometheus metrics are exposed on
/metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cmd.Flags().Changed("addr") {
		addr, _ := cmd.Flags().GetString("addr")
		viper.Set("server.addr", addr)
	}

	deps, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	server := api.NewServer(deps.source, deps.engine, pdf.NewRenderer(), deps.metrics, deps.logger)

	deps.logger.Info("serving", "addr", deps.app.Server.Addr, "source", deps.source.Name())
	if err := server.ListenAndServe(ctx, deps.app.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
