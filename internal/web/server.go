package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/tracker"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates the HTTP server for the winterarc web UI, listening on
// cfg.WebBind:cfg.WebPort.
func NewServer(tr *tracker.Tracker, cfg *config.Config, logger *slog.Logger, version string) (*http.Server, error) {
	h, err := newHandlers(tr, logger, version)
	if err != nil {
		return nil, err
	}

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/log", http.StatusFound)
	})
	mux.HandleFunc("GET /log", h.HandleLog)
	mux.HandleFunc("POST /log/entries", h.HandleAdd)
	mux.HandleFunc("POST /log/entries/{id}/delete", h.HandleDelete)
	mux.HandleFunc("DELETE /log/entries/{id}", h.HandleDelete)
	mux.HandleFunc("GET /log/report", h.HandleReport)
	mux.HandleFunc("GET /api/log", h.HandleAPILog)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.WebBind, cfg.WebPort),
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// newHandlers wires handlers to the embedded templates.
func newHandlers(tr *tracker.Tracker, logger *slog.Logger, version string) (*Handlers, error) {
	if logger == nil {
		logger = slog.Default()
	}
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	return &Handlers{
		tracker:  tr,
		logger:   logger,
		renderer: NewRenderer(templateSub, version, logger),
	}, nil
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; form-action 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and shuts it down gracefully on SIGINT/SIGTERM.
func Run(srv *http.Server, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("web UI running", "url", "http://"+srv.Addr)
	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
