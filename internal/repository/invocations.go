package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/functions/internal/models"
)

// EnsureSchema creates the invocations table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS invocations (
			id VARCHAR(255) PRIMARY KEY,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create invocations table: %w", err)
	}

	return nil
}

// InsertInvocation stores a new invocation; created_at is filled in by the database.
func (r *Repository) InsertInvocation(ctx context.Context, id string) error {
	query := `INSERT INTO invocations (id) VALUES ($1);`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to insert invocation: %w", err)
	}

	r.log.DebugContext(ctx, "Invocation stored", "id", id)

	return nil
}

// ListInvocations returns the latest limit invocations, newest first.
func (r *Repository) ListInvocations(ctx context.Context, limit int) ([]models.Invocation, error) {
	query := `
		SELECT id, created_at
		FROM invocations
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	invocations := make([]models.Invocation, 0, max(limit, 0))
	for rows.Next() {
		var invocation models.Invocation
		if errScan := rows.Scan(&invocation.ID, &invocation.CreatedAt); errScan != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", errScan)
		}
		invocations = append(invocations, invocation)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return invocations, nil
}
