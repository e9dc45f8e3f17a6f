package items

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

func setupItemsRepoTest(t *testing.T) (*PostgresItemsRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresItemsRepo(mockPool, logger), mockPool
}

func TestPostgresItemsRepo_ListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered rows come back intact", func(t *testing.T) {
		repo, mockPool := setupItemsRepoTest(t)
		now := time.Now()
		id1, id2 := uuid.New(), uuid.New()

		mockPool.ExpectQuery("SELECT id, name, COALESCE").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "category", "created_at", "updated_at"}).
				AddRow(id1, "Modern Tech Gadget", "", "product", now, now).
				AddRow(id2, "The Cozy Cafe", "A warm place.", "restaurant", now, now))

		items, err := repo.ListItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Modern Tech Gadget", items[0].Name)
		assert.Equal(t, id2, items[1].ID)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("empty catalog is an empty slice, not nil", func(t *testing.T) {
		repo, mockPool := setupItemsRepoTest(t)

		mockPool.ExpectQuery("SELECT id, name, COALESCE").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "category", "created_at", "updated_at"}))

		items, err := repo.ListItems(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestPostgresItemsRepo_GetItemByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupItemsRepoTest(t)
		id := uuid.New()
		now := time.Now()

		mockPool.ExpectQuery("SELECT id, name, COALESCE").
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "category", "created_at", "updated_at"}).
				AddRow(id, "Silent Library", "A quiet place.", "place", now, now))

		item, err := repo.GetItemByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Silent Library", item.Name)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		repo, mockPool := setupItemsRepoTest(t)
		id := uuid.New()

		mockPool.ExpectQuery("SELECT id, name, COALESCE").
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetItemByID(ctx, id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}
