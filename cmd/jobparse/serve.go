package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dayoung-dev/joblens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the parse pipeline as REST endpoints.`,
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config and JOBLENS_LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer application.close()

	addr := serveAddr
	if addr == "" {
		addr = application.cfg.Addr()
	}

	srv := server.New(addr, application.service, application.logger)
	return srv.Start()
}
