package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/dreamjournal/pkg/api"
	"github.com/unowned-ai/dreamjournal/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the dream journal MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the journal (analysis, recording,
listing, search, statistics, import and export) as MCP tools via STDIO.

Example:

  dreams mcp --backend sqlite 2> server.log`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		srv := mcp.NewDreamMCPServer(a.svc)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		a.logger.Info("dream MCP server started", "backend", a.cfg.Storage.Backend, "tools", len(mcp.ToolNames))
		return srv.Start()
	}),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over HTTP",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		sc := a.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			sc.Addr = addr
		}
		srv := &http.Server{
			Addr:         sc.Addr,
			Handler:      api.NewRouter(a.svc, api.Options{MaxUploadBytes: sc.MaxUploadBytes, Logger: a.logger}),
			ReadTimeout:  sc.ReadTimeout,
			WriteTimeout: sc.WriteTimeout,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("starting dream journal HTTP server", "addr", sc.Addr, "backend", a.cfg.Storage.Backend)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		a.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}),
}

func initServerCmds() {
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr)")
	rootCmd.AddCommand(mcpCmd, serveCmd)
}
