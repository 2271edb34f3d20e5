package functions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/functions/internal/models"
)

// InvocationStore keeps a short-lived log of invocations.
type InvocationStore interface {
	RecordInvocation(ctx context.Context, id string, at time.Time, limit int) (*models.InvocationLog, error)
}

// Redis records the invocation in Redis and lists the most recent ones.
type Redis struct {
	store InvocationStore
	now   func() time.Time
	log   *slog.Logger
}

// NewRedis creates the function. A nil store makes every invocation fail with ErrUnavailable.
func NewRedis(store InvocationStore, log *slog.Logger) *Redis {
	return &Redis{store: store, now: time.Now, log: log}
}

func (f *Redis) Name() string { return "redis" }

func (f *Redis) Invoke(ctx context.Context, event Event) (any, error) {
	f.log.InfoContext(ctx, fmt.Sprintf("Invoking %s with payload %s", f.Name(), payloadString(event.Data)))

	var req recentRequest
	if err := decodePayload(event.Data, &req); err != nil {
		return nil, err
	}

	if f.store == nil {
		return nil, fmt.Errorf("%w: REDIS_URL is not set", ErrUnavailable)
	}

	log, err := f.store.RecordInvocation(ctx, event.ID, f.now(), req.limit())
	if err != nil {
		f.log.ErrorContext(ctx, "An error occurred", "error", err)
		return nil, err
	}

	return log, nil
}
