package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"openlibrary-opds-provider/internal/config"
	"openlibrary-opds-provider/internal/handler"
	"openlibrary-opds-provider/internal/provider"
	"openlibrary-opds-provider/internal/service"
)

const version = "0.1.0"

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "opds-provider",
		Short: "OPDS 2.0 catalog server backed by Open Library",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the OPDS catalog server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(serve)
	return root
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	providers := provider.NewAll(cfg)
	slog.Info("Loaded providers", "count", len(providers))

	svc := service.NewService(providers...)
	h := handler.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/opds/catalog", h.Catalog)
	mux.HandleFunc("/opds/search", h.Search)

	for _, p := range svc.Providers() {
		providerID := p.ID()
		path := "/opds/" + providerID + "/search"
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			h.SearchSingle(w, r, providerID)
		})
		slog.Info("Registered provider endpoint", "path", path)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
