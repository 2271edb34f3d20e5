package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/functions/internal/models"
)

// Repository persists invocation records in Postgres.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is what the postgres function needs from the storage layer.
type Interface interface {
	InsertInvocation(ctx context.Context, id string) error
	ListInvocations(ctx context.Context, limit int) ([]models.Invocation, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
