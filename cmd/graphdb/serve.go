package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/metrics"
	"github.com/cuemby/graphdb/pkg/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the query engine as a long-lived gRPC server",
	Long: `Opens a database and serves the QueryService gRPC API over
--listen until interrupted. Use --read-only to run a replica-style
listener that only accepts the read RPCs (Query, PrepareStatement,
ExecutePrepared, EnumeratePlans).`,
	RunE: runServe,
}

func init() {
	addDatabaseFlags(serveCmd)
	serveCmd.Flags().String("listen", "127.0.0.1:7687", "Address the QueryService gRPC listener binds to")
	serveCmd.Flags().Bool("read-only", false, "Reject write RPCs on this listener")
	serveCmd.Flags().String("http-listen", "127.0.0.1:8080", "Address the /health, /ready, /live, and /metrics HTTP server binds to")
}

func runServe(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")
	readOnly, _ := cmd.Flags().GetBool("read-only")
	httpListen, _ := cmd.Flags().GetString("http-listen")

	logger := log.WithComponent("serve")

	db, err := openDatabase(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	srv := rpc.NewServer(db, readOnly)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(listen); err != nil {
			errCh <- err
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())
	mux.Handle("/metrics", metrics.Handler())
	httpSrv := &http.Server{Addr: httpListen, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	metrics.RegisterComponent("rpc", true, "")

	logger.Info().Str("listen", listen).Str("http_listen", httpListen).Bool("read_only", readOnly).Msg("graphdb serving")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("query service listener failed")
	}

	_ = httpSrv.Shutdown(context.Background())
	srv.Stop()
	return db.Close()
}
