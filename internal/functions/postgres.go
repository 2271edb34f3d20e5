package functions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/functions/internal/repository"
)

type recentRequest struct {
	Limit *int `json:"limit" validate:"omitempty,min=0,max=1000"`
}

func (r recentRequest) limit() int {
	if r.Limit == nil {
		return defaultRecentLimit
	}
	return *r.Limit
}

const defaultRecentLimit = 5

// Postgres records the invocation in Postgres and lists the most recent ones.
type Postgres struct {
	repo repository.Interface
	log  *slog.Logger
}

// NewPostgres creates the function. A nil repo makes every invocation fail with ErrUnavailable.
func NewPostgres(repo repository.Interface, log *slog.Logger) *Postgres {
	return &Postgres{repo: repo, log: log}
}

func (f *Postgres) Name() string { return "postgres" }

func (f *Postgres) Invoke(ctx context.Context, event Event) (any, error) {
	f.log.InfoContext(ctx, fmt.Sprintf("Invoking %s with payload %s", f.Name(), payloadString(event.Data)))

	var req recentRequest
	if err := decodePayload(event.Data, &req); err != nil {
		return nil, err
	}

	if f.repo == nil {
		return nil, fmt.Errorf("%w: DATABASE_URL is not set", ErrUnavailable)
	}

	if err := f.repo.InsertInvocation(ctx, event.ID); err != nil {
		f.log.ErrorContext(ctx, "An error occurred", "error", err)
		return nil, err
	}

	invocations, err := f.repo.ListInvocations(ctx, req.limit())
	if err != nil {
		f.log.ErrorContext(ctx, "An error occurred", "error", err)
		return nil, err
	}

	return invocations, nil
}
