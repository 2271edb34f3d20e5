// Package functions contains the example functions served by the host and the registry that names them.
package functions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/UnknownOlympus/functions/internal/proximity"
)

var (
	// ErrInvalidArgument is returned when a payload cannot be decoded or fails validation.
	ErrInvalidArgument = proximity.ErrInvalidArgument
	// ErrFunctionNotFound is returned by Registry.Lookup for unknown names.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrUnavailable is returned when a backing resource of a function is not configured.
	ErrUnavailable = errors.New("resource unavailable")
)

// Event is the invocation event handed to a function. Its attributes follow CloudEvents.
type Event struct {
	ID              string
	Source          string
	Type            string
	DataContentType string
	Time            time.Time
	Data            json.RawMessage
}

// Function is a single invocable unit.
type Function interface {
	Name() string
	Invoke(ctx context.Context, event Event) (any, error)
}

// Registry maps function names to their implementation.
type Registry struct {
	functions map[string]Function
}

// NewRegistry indexes fns by name. A later function replaces an earlier one with the same name.
func NewRegistry(fns ...Function) *Registry {
	registry := &Registry{functions: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		registry.functions[fn.Name()] = fn
	}

	return registry
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, error) {
	fn, ok := r.functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}

	return fn, nil
}

// Names returns the registered function names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
