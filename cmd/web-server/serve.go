package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	webserver "github.com/web-widget/web-server"
	"github.com/web-widget/web-server/internal/dev"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		devMode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(addr, devMode)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (livereload, relaxed CSP)")

	return cmd
}

func serve(addr string, devMode bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app, err := webserver.New(demoManifest(), webserver.Config{
		Logger:  logger,
		DevMode: devMode,
	})
	if err != nil {
		return err
	}

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID, chimiddleware.RealIP)
	mux.Handle("/metrics", promhttp.Handler())
	if devMode {
		mux.Handle("/_livereload", dev.NewReloader())
	}
	mux.Handle("/*", app)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", addr, "dev", devMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-shutdown:
		logger.Info("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	}
}
