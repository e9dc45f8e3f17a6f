package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

func setupAuthRepoTest(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresAuthRepo(mockPool, logger), mockPool
}

func TestPostgresAuthRepo_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		id := uuid.New().String()
		now := time.Now()

		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("alice", "alice@example.com", "hashed-pw").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(id, now, now))

		user, err := repo.CreateUser(ctx, "alice", "alice@example.com", "hashed-pw")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "alice", user.Username)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("duplicate username maps to conflict", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("alice", "", "hashed-pw").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.CreateUser(ctx, "alice", "", "hashed-pw")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrConflict))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_GetUserByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("success includes password hash", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		id := uuid.New().String()
		now := time.Now()

		mockPool.ExpectQuery("SELECT id, username, COALESCE").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "coalesce", "password_hash", "created_at", "updated_at"}).
				AddRow(id, "alice", "alice@example.com", "stored-hash", now, now))

		user, err := repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "stored-hash", user.Password)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)

		mockPool.ExpectQuery("SELECT id, username, COALESCE").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByUsername(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepo_GetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("projection excludes password hash", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		id := uuid.New()
		now := time.Now()

		mockPool.ExpectQuery("SELECT id, username, COALESCE").
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "coalesce", "created_at", "updated_at"}).
				AddRow(id.String(), "alice", "", now, now))

		user, err := repo.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id.String(), user.ID)
		assert.Empty(t, user.Password)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		repo, mockPool := setupAuthRepoTest(t)
		id := uuid.New()

		mockPool.ExpectQuery("SELECT id, username, COALESCE").
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByID(ctx, id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
