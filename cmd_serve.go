package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"edachat/server"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session API over HTTP",
	Long: `Starts the JSON API. Each session holds its own dataset and memory.

  POST   /api/v1/sessions
  POST   /api/v1/sessions/{id}/dataset
  POST   /api/v1/sessions/{id}/questions
  GET    /api/v1/sessions/{id}/memory
  GET    /api/v1/sessions/{id}/summary
  GET    /api/v1/sessions/{id}/report
  DELETE /api/v1/sessions/{id}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context(), globalOptions())
	if err != nil {
		return err
	}
	defer app.Close()

	sc := app.cfg.Server
	if serveAddr != "" {
		sc.Addr = serveAddr
	}
	srv := server.New(app.agent, server.Config{
		Addr:           sc.Addr,
		AllowedOrigins: sc.AllowedOrigins,
		Ingest:         app.ingestOptions(),
		SessionTTL:     time.Duration(sc.SessionTTLMin) * time.Minute,
	}, server.WithLogger(app.log.Zap()), server.WithExporter(app.exporter))

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", sc.Addr)
	app.log.Zap().Info("serve", zap.String("addr", sc.Addr))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	g.Go(func() error { return srv.RunJanitor(ctx, time.Minute) })
	return g.Wait()
}
