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
	"github.com/taita-blog/admin-gateway/app"
	"github.com/taita-blog/admin-gateway/config"
	"github.com/taita-blog/admin-gateway/handlers"
	"github.com/taita-blog/admin-gateway/internal/observability"
	"github.com/taita-blog/admin-gateway/routes"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:          "admin-gateway",
		Short:        "Tenant-aware admin gateway for the Taita CMS",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), routesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the effective route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			table := routes.DefaultTable()
			if cfg.Routes.File != "" {
				table, err = routes.LoadFile(cfg.Routes.File)
				if err != nil {
					return err
				}
			}

			for _, d := range table.Routes {
				flags := "public"
				if d.RequiresAuth {
					flags = "auth"
					if d.RequiredRole != "" {
						flags = "auth+" + string(d.RequiredRole)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-28s %s\n", d.Name, d.Path, flags)
			}
			return nil
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handlers.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin gateway listening",
			zap.String("addr", srv.Addr),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	return deps.Close(shutdownCtx)
}
