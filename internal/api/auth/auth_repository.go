package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-item-reviews/app/observability/metrics"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// Querier is the subset of pgxpool.Pool this repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo abstracts user credential persistence. Errors are reported as
// the closed sentinel set in internal/types, never as driver error codes.
type AuthRepo interface {
	// CreateUser persists a new user with an already-hashed password and
	// returns the stored record. A duplicate username yields ErrConflict.
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error)

	// GetUserByUsername returns the user including the password hash, for
	// login comparison only. ErrNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error)

	// GetUserByID returns the user projection without the password hash.
	// ErrNotFound when no such user exists.
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool Querier
}

func NewPostgresAuthRepo(pgpool Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// observeQuery records query latency and failures on the shared instruments.
func observeQuery(ctx context.Context, start time.Time, err error) {
	m := metrics.Get()
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1)
	}
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", username))

	user := types.UserAuth{Username: username, Email: email}
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, NULLIF($2, ''), $3)
         RETURNING id, created_at, updated_at`,
		username, email, passwordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	observeQuery(ctx, start, err)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			l.WarnContext(ctx, "Username already taken")
			span.SetStatus(codes.Error, "Duplicate username")
			return nil, fmt.Errorf("username already taken: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByUsername", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var user types.UserAuth
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, COALESCE(email, ''), password_hash, created_at, updated_at
         FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	observeQuery(ctx, start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query user by username", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", id.String()),
	))
	defer span.End()

	// The password hash is deliberately excluded from this projection; it is
	// the lookup used to build the per-request identity.
	var user types.UserAuth
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, username, COALESCE(email, ''), created_at, updated_at
         FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	observeQuery(ctx, start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query user by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return &user, nil
}
