// Package server exposes graph loading over HTTP.
//
// Routes:
//
//	GET /graph?filename=<name>   laid-out graph as JSON (text/plain)
//	GET /healthz                 "ok"
//
// Failures are reported in the response body as "Error: <message>" with
// status 200, so a browser or script polling the endpoint always receives
// a readable answer.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/dotlayout/pkg/errors"
	"github.com/matzehuels/dotlayout/pkg/service"
)

// Loader loads a graph by filename.
type Loader interface {
	Load(ctx context.Context, filename string) (*service.Result, error)
}

const contentType = "text/plain; charset=utf-8"

// Handler returns the HTTP handler serving graphs from loader.
func Handler(loader Loader, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{loader: loader, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/graph", h.graph)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

type handler struct {
	loader Loader
	logger *log.Logger
}

func (h *handler) graph(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	w.Header().Set("Content-Type", contentType)

	res, err := h.loader.Load(r.Context(), filename)
	if err != nil {
		// Malformed graphs are the author's problem, not the server's.
		logf := h.logger.Warn
		if errs.IsParseError(err) {
			logf = h.logger.Info
		}
		logf("load failed",
			"request_id", RequestID(r.Context()),
			"file", filename,
			"code", errs.GetCode(err),
			"error", err)
		_, _ = w.Write([]byte("Error: " + errs.UserMessage(err)))
		return
	}

	w.Header().Set("X-Cache", cacheStatus(res.Cached))
	_, _ = w.Write(res.JSON)
}

func cacheStatus(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}

// Serve runs an HTTP server on addr until ctx is canceled, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
