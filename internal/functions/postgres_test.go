package functions_test

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/UnknownOlympus/functions/internal/models"
	"github.com/UnknownOlympus/functions/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres(t *testing.T) {
	logger := slog.Default()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []models.Invocation{{ID: "evt-2", CreatedAt: created}, {ID: "evt-1", CreatedAt: created.Add(-time.Minute)}}

	t.Run("default limit", func(t *testing.T) {
		repo := mocks.NewInterface(t)
		fn := functions.NewPostgres(repo, logger)
		ctx := t.Context()

		repo.On("InsertInvocation", ctx, "evt-2").Return(nil).Once()
		repo.On("ListInvocations", ctx, 5).Return(rows, nil).Once()

		result, err := fn.Invoke(ctx, functions.Event{ID: "evt-2"})

		require.NoError(t, err)
		assert.Equal(t, rows, result)
	})

	t.Run("explicit limit", func(t *testing.T) {
		repo := mocks.NewInterface(t)
		fn := functions.NewPostgres(repo, logger)
		ctx := t.Context()

		repo.On("InsertInvocation", ctx, "evt-3").Return(nil).Once()
		repo.On("ListInvocations", ctx, 1).Return(rows[:1], nil).Once()

		result, err := fn.Invoke(ctx, functions.Event{ID: "evt-3", Data: json.RawMessage(`{"limit": 1}`)})

		require.NoError(t, err)
		assert.Equal(t, rows[:1], result)
	})

	t.Run("insert fails", func(t *testing.T) {
		repo := mocks.NewInterface(t)
		fn := functions.NewPostgres(repo, logger)
		ctx := t.Context()

		repo.On("InsertInvocation", ctx, "evt-4").Return(assert.AnError).Once()

		_, err := fn.Invoke(ctx, functions.Event{ID: "evt-4"})

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("list fails", func(t *testing.T) {
		repo := mocks.NewInterface(t)
		fn := functions.NewPostgres(repo, logger)
		ctx := t.Context()

		repo.On("InsertInvocation", ctx, "evt-5").Return(nil).Once()
		repo.On("ListInvocations", ctx, 5).Return(nil, assert.AnError).Once()

		_, err := fn.Invoke(ctx, functions.Event{ID: "evt-5"})

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("negative limit", func(t *testing.T) {
		repo := mocks.NewInterface(t)
		fn := functions.NewPostgres(repo, logger)

		_, err := fn.Invoke(t.Context(), functions.Event{ID: "evt-6", Data: json.RawMessage(`{"limit": -1}`)})

		require.ErrorIs(t, err, functions.ErrInvalidArgument)
	})

	t.Run("not configured", func(t *testing.T) {
		fn := functions.NewPostgres(nil, logger)

		_, err := fn.Invoke(t.Context(), functions.Event{ID: "evt-7"})

		require.ErrorIs(t, err, functions.ErrUnavailable)
	})
}
