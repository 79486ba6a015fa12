package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yousuf/jstrace/internal/server"
	"github.com/yousuf/jstrace/internal/session"
)

const sessionIdleTimeout = 30 * time.Minute

func newServeCmd(opts *globalOptions) *cobra.Command {
	var serveListen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over streamable HTTP",
		Long: `Run the MCP server.

The MCP endpoint is served at /mcp and Prometheus metrics at /metrics. The listen
address comes from --listen, the PORT environment variable or the config file,
in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			switch {
			case serveListen != "":
				cfg.Listen = serveListen
			case os.Getenv("PORT") != "":
				cfg.Listen = ":" + os.Getenv("PORT")
			}

			// Create session manager
			sessionMgr, err := session.NewManager(cfg)
			if err != nil {
				return err
			}
			log.Info().Int("source_maps", len(cfg.SourceMaps)).Msg("Loaded configuration")

			mcpServer, err := server.NewMCPServer(sessionMgr, cfg)
			if err != nil {
				return err
			}

			handler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
				return mcpServer
			}, &mcp.StreamableHTTPOptions{
				Stateless:      false,
				JSONResponse:   false,
				SessionTimeout: sessionIdleTimeout,
			})

			mux := http.NewServeMux()
			mux.Handle("/mcp", handler)
			mux.Handle("/metrics", promhttp.Handler())

			httpServer := &http.Server{
				Addr:         cfg.Listen,
				Handler:      mux,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Start server in a goroutine
			serveErr := make(chan error, 1)
			go func() {
				log.Info().Str("listen", cfg.Listen).Msg("jstrace MCP server listening")
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serveErr <- err
				}
				close(serveErr)
			}()

			go pruneSessions(ctx, sessionMgr)

			select {
			case err := <-serveErr:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("Shutting down server...")

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Server shutdown error")
			}

			log.Info().Int("sessions", sessionMgr.CloseAll()).Msg("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&serveListen, "listen", "l", "", "address to listen on (default from config: :3000)")

	return cmd
}

// pruneSessions drops idle sessions until ctx is done
func pruneSessions(ctx context.Context, sessionMgr *session.Manager) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessionMgr.PruneIdle(sessionIdleTimeout); n > 0 {
				log.Debug().Int("sessions", n).Msg("Pruned idle sessions")
			}
		}
	}
}
