package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtside/internal/config"
	"courtside/internal/logger"
	"courtside/internal/server"

	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight analyses may finish after a signal.
const shutdownTimeout = 30 * time.Second

// NewServeCmd creates the serve command for starting the HTTP server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API for the browser front-end",
		Long: `Start the courtside API server.

The server provides:
  • GET  /api/games      upcoming games (empty list when the lookup fails)
  • POST /api/analysis   prop analysis for {"game": {...}, "filter": "ALL|OVER|UNDER"}
                         (?format=html or ?format=markdown for rendered reports)
  • POST /api/slip       slip export text and combined odds for {"props": [...]}
  • GET  /health         health check
  • GET  /metrics        Prometheus metrics

Send the same X-Session-ID header on analysis requests from one browser tab
so a newer request cancels the previous one.

Examples:
  # Start server on default port 8080
  courtside serve

  # Start on custom port
  courtside serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")

	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override server config from flags if provided
	serverCfg := cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	// Create HTTP server
	srv := server.New(serverCfg, svc.games, svc.analyzer, svc.metrics)

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Info(fmt.Sprintf("Server listening on http://%s:%d", serverCfg.Host, serverCfg.Port))
		log.Info("Press Ctrl+C to stop")
		serverErrors <- srv.Start()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal or an error from server
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		log.Info("Server shutdown initiated", "reason", ctx.Err().Error())
		return shutdownServer(srv)

	case sig := <-shutdown:
		log.Info("Server shutdown initiated", "signal", sig.String())
		return shutdownServer(srv)
	}
}

func shutdownServer(srv *server.Server) error {
	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped successfully")
	return nil
}
