package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/UnknownOlympus/functions/internal/metrics"
)

const (
	statusOK       = "ok"
	statusRejected = "rejected"
	statusFailed   = "failed"
)

// Invoker runs registered functions and records how each invocation went.
type Invoker struct {
	log      *slog.Logger
	registry *functions.Registry
	metrics  *metrics.Metrics
}

// NewInvoker creates a new instance of Invoker.
func NewInvoker(log *slog.Logger, registry *functions.Registry, metrics *metrics.Metrics) *Invoker {
	return &Invoker{log: log, registry: registry, metrics: metrics}
}

// Functions returns the names of all invocable functions.
func (inv *Invoker) Functions() []string {
	return inv.registry.Names()
}

// Invoke looks up the function called name and runs it with event.
// Lookup failures are returned without touching the invocation metrics.
func (inv *Invoker) Invoke(ctx context.Context, name string, event functions.Event) (any, error) {
	fn, err := inv.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	inv.metrics.ActiveInvocations.Inc()
	defer inv.metrics.ActiveInvocations.Dec()

	inv.log.DebugContext(ctx, "Invoking function", "function", name, "event", event.ID)

	startTime := time.Now()
	result, err := fn.Invoke(ctx, event)
	inv.metrics.InvocationSeconds.WithLabelValues(name).Observe(time.Since(startTime).Seconds())

	switch {
	case err == nil:
		inv.metrics.InvocationsTotal.WithLabelValues(name, statusOK).Inc()
		inv.log.DebugContext(ctx, "Function finished", "function", name, "event", event.ID)
	case errors.Is(err, functions.ErrInvalidArgument):
		inv.metrics.InvocationsTotal.WithLabelValues(name, statusRejected).Inc()
		inv.log.InfoContext(ctx, "Function rejected the payload", "function", name, "event", event.ID, "error", err)
	default:
		inv.metrics.InvocationsTotal.WithLabelValues(name, statusFailed).Inc()
		inv.log.ErrorContext(ctx, "Function failed", "function", name, "event", event.ID, "error", err)
	}

	return result, err
}
