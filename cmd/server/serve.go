package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"companion-app/frontend/pkg/di"
	"companion-app/frontend/pkg/router"

	"github.com/spf13/cobra"
)

const healthCheckPeriod = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			container, err := di.New(ctx, cfg, log)
			if err != nil {
				log.LogError(err, "Failed to initialize dependency container")
				return err
			}

			container.Health.Start(ctx, healthCheckPeriod)
			if container.Bus != nil {
				go func() {
					if err := container.Bus.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.LogError(err, "Revalidation listener stopped")
					}
				}()
			}

			r := router.New(ctx, container)
			r.SetupRoutes()

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           r.Engine,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("Server starting", "port", cfg.Server.Port, "env", cfg.Server.Env)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					log.LogError(err, "Server failed to start")
					_ = container.Close(context.Background())
					return err
				}
			case <-ctx.Done():
			}

			log.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.LogError(err, "Server forced to shutdown")
			}
			if err := container.Close(shutdownCtx); err != nil {
				log.LogError(err, "Failed to release resources")
			}

			log.Info("Server exited gracefully")
			return nil
		},
	}
}
