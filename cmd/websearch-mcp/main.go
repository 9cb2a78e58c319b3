// Command websearch-mcp runs the web search MCP server over stdio or
// streamable HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/searchhub/websearch-mcp-go/eventlog"
	eventlogmemory "github.com/searchhub/websearch-mcp-go/eventlog/memory"
	eventlogredis "github.com/searchhub/websearch-mcp-go/eventlog/redis"
	"github.com/searchhub/websearch-mcp-go/internal/browser"
	"github.com/searchhub/websearch-mcp-go/internal/config"
	"github.com/searchhub/websearch-mcp-go/internal/jwtauth"
	"github.com/searchhub/websearch-mcp-go/internal/logctx"
	"github.com/searchhub/websearch-mcp-go/internal/search"
	"github.com/searchhub/websearch-mcp-go/sessions"
	"github.com/searchhub/websearch-mcp-go/stdio"
	"github.com/searchhub/websearch-mcp-go/streaminghttp"
	"github.com/searchhub/websearch-mcp-go/websearch"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "websearch-mcp",
		Short:         "MCP server exposing web search, scrape, map, and extract tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStdioCmd(), newHTTPCmd())
	return root
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	// Logs go to stderr: on the stdio transport, stdout carries the protocol.
	return slog.New(logctx.Handler{Handler: slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})})
}

func newWebsearchServer(cfg *config.Config, log *slog.Logger) *websearch.Server {
	return websearch.NewServer(websearch.Config{
		ServerName:    "websearch-mcp",
		ServerVersion: version,
		Search: search.Config{
			Provider: cfg.SearchProvider,
			Endpoint: cfg.SearchAPIURL,
			APIKey:   cfg.SearchAPIKey,
		},
		SearchTimeout: cfg.SearchTimeout,
		Browser:       browser.NewFetcher(browser.WithConcurrency(cfg.ScrapeConcurrency)),
		Logger:        log,
	})
}

func newStdioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve one MCP conversation over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := newWebsearchServer(cfg, log)
			h := stdio.NewHandler(srv.NewHandlerSet(), stdio.WithLogger(log))
			log.InfoContext(ctx, "stdio.start", slog.String("version", version))
			return h.Serve(ctx)
		},
	}
}

func newHTTPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "http",
		Short: "Serve the multi-tenant streamable HTTP transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var ledger eventlog.Ledger
			if cfg.RedisAddr != "" {
				rl, err := eventlogredis.New(eventlogredis.Config{Addr: cfg.RedisAddr, KeyPrefix: cfg.RedisPrefix})
				if err != nil {
					return fmt.Errorf("connect redis ledger: %w", err)
				}
				defer rl.Close()
				ledger = rl
				log.InfoContext(ctx, "eventlog.redis", slog.String("addr", cfg.RedisAddr))
			} else {
				ledger = eventlogmemory.New()
				log.InfoContext(ctx, "eventlog.memory")
			}

			registry := sessions.NewRegistry(ledger,
				sessions.WithLogger(log),
				sessions.WithIdleTimeout(cfg.SessionIdleTimeout),
				sessions.WithReapInterval(cfg.SessionReapInterval),
				sessions.WithHeartbeatInterval(cfg.HeartbeatInterval),
			)
			go registry.RunReaper(ctx)

			srv := newWebsearchServer(cfg, log)

			opts := []streaminghttp.Option{streaminghttp.WithLogger(log)}
			if cfg.AuthJWTSecret != "" {
				a, err := jwtauth.New(jwtauth.Config{Secret: []byte(cfg.AuthJWTSecret), Issuer: cfg.AuthIssuer})
				if err != nil {
					return fmt.Errorf("configure auth: %w", err)
				}
				opts = append(opts, streaminghttp.WithAuthenticator(a))
				log.InfoContext(ctx, "auth.enabled")
			}

			handler, err := streaminghttp.New(cfg.EndpointPath, registry, ledger, srv.NewHandlerSet, opts...)
			if err != nil {
				return fmt.Errorf("build handler: %w", err)
			}

			httpSrv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				log.Info("http.shutdown.start")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					log.Warn("http.shutdown.fail", slog.String("err", err.Error()))
				}
			}()

			log.InfoContext(ctx, "http.listen",
				slog.String("addr", cfg.ListenAddr),
				slog.String("path", cfg.EndpointPath),
				slog.String("version", version))
			err = httpSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
			}

			registry.Shutdown(context.Background())
			log.Info("http.shutdown.ok")
			return nil
		},
	}
}
