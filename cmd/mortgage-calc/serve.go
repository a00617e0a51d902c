package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/fifty-year-mortgage/internal/cache"
	"github.com/iwvelando/fifty-year-mortgage/internal/metrics"
	"github.com/iwvelando/fifty-year-mortgage/internal/preferences"
	"github.com/iwvelando/fifty-year-mortgage/internal/server"
	"github.com/iwvelando/fifty-year-mortgage/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverConf, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				serverConf.Address = address
			}

			logger := a.logger
			if serverConf.Logging.Level != "" || serverConf.Logging.Format != "" || serverConf.Logging.OutputFile != "" {
				logger, err = initializeLogger(serverConf.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			return a.serve(cmd.Context(), logger, serverConf)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func (a *app) serve(ctx context.Context, logger *zap.Logger, serverConf *server.Config) error {
	responseCache, err := cache.New(ctx, serverConf.Cache, logger)
	if err != nil {
		return fmt.Errorf("failed to set up cache: %w", err)
	}
	defer func() {
		if err := responseCache.Close(); err != nil {
			logger.Warn("failed to close cache", zap.String("op", "main.serve"), zap.Error(err))
		}
	}()

	prefs, err := preferences.New(serverConf.Preferences, logger)
	if err != nil {
		return fmt.Errorf("failed to set up preference store: %w", err)
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logger.Warn("failed to close preference store", zap.String("op", "main.serve"), zap.Error(err))
		}
	}()

	serverVersion := serverConf.Version
	if serverVersion == "" {
		serverVersion = version
	}

	handler := server.NewHandler(logger, server.Dependencies{
		Config:      a.conf,
		Cache:       responseCache,
		CacheTTL:    serverConf.Cache.TTLDuration(),
		Preferences: prefs,
		Metrics:     metrics.New(),
		MaxBodySize: serverConf.BodySizeBytes(),
		Version:     serverVersion,
	})

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main.serve"),
			zap.String("address", serverConf.Address),
			zap.String("version", serverVersion),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down HTTP server", zap.String("op", "main.serve"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}
