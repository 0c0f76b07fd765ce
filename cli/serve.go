package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"catalog/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, app, cfg)
		},
	}
	serveCmd.Flags().String("http-addr", ":8080", "listen address")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (* for any)")
	serveCmd.Flags().Bool("validate-requests", true, "validate /api requests against the OpenAPI document")
	for _, name := range []string{"http-addr", "shutdown-timeout", "cors-origins", "validate-requests"} {
		_ = viper.BindPFlag(name, serveCmd.Flags().Lookup(name))
	}
	rootCmd.AddCommand(serveCmd)
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, a *App, cfg Config) error {
	router, err := api.NewRouter(api.RouterConfig{
		Catalog:          a.Catalog,
		Events:           a.Events,
		Logger:           a.Logger,
		Recorder:         a.Telemetry.Recorder,
		MetricsHandler:   a.Telemetry.Handler,
		CORSOrigins:      cfg.CORSOrigins,
		ValidateRequests: cfg.ValidateRequests,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http listening", "addr", cfg.HTTPAddr, "store", a.Backend.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	a.Logger.Info("shutting down", "timeout", timeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.Logger.Info("http server stopped")
	return <-errCh
}
