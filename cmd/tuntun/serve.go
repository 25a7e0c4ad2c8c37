package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tuntun/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Run(ctx)
	},
}

