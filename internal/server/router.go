// Package server exposes the function registry over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/UnknownOlympus/functions/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Invoker runs functions by name.
type Invoker interface {
	Invoke(ctx context.Context, name string, event functions.Event) (any, error)
	Functions() []string
}

// NewRouter wires the invocation endpoints and their middleware stack.
func NewRouter(invoker Invoker, m *metrics.Metrics, log *slog.Logger) http.Handler {
	handler := &FunctionHandler{invoker: invoker, log: log, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics(m))

	r.Route("/functions", func(r chi.Router) {
		r.Get("/", handler.list)
		r.Post("/{name}", handler.invoke)
	})

	return r
}
