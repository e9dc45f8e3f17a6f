package comments

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

const foreignKeyViolation = "23503"

// Querier is the subset of pgxpool.Pool this repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ CommentsRepo = (*PostgresCommentsRepo)(nil)

// CommentsRepo abstracts comment persistence.
type CommentsRepo interface {
	// ReviewExists reports whether a review with the given ID exists.
	ReviewExists(ctx context.Context, reviewID uuid.UUID) (bool, error)

	// ListCommentsByReview returns a review's comments ordered newest first,
	// each with the author projection attached.
	ListCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]types.Comment, error)

	// ListCommentsByUser returns a user's comments ordered newest first, each
	// with the parent review projection attached.
	ListCommentsByUser(ctx context.Context, userID uuid.UUID) ([]types.Comment, error)

	// GetCommentByID returns a comment with the author projection.
	// ErrNotFound when no such comment exists.
	GetCommentByID(ctx context.Context, id uuid.UUID) (*types.Comment, error)

	// CreateComment persists a new comment. A missing parent review yields
	// ErrNotFound.
	CreateComment(ctx context.Context, userID, reviewID uuid.UUID, text string) (*types.Comment, error)

	// UpdateComment replaces a comment's text. ErrNotFound when no such
	// comment exists.
	UpdateComment(ctx context.Context, id uuid.UUID, text string) error

	// DeleteComment removes a comment. ErrNotFound when it does not exist.
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type PostgresCommentsRepo struct {
	logger *slog.Logger
	pgpool Querier
}

func NewPostgresCommentsRepo(pgpool Querier, logger *slog.Logger) *PostgresCommentsRepo {
	return &PostgresCommentsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func observeQuery(ctx context.Context, start time.Time, err error) {
	m := metrics.Get()
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1)
	}
}

func (r *PostgresCommentsRepo) ReviewExists(ctx context.Context, reviewID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "ReviewExists", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
	))
	defer span.End()

	var exists bool
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1)`, reviewID,
	).Scan(&exists)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check review existence", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return false, fmt.Errorf("database error checking review existence: %w", err)
	}

	span.SetStatus(codes.Ok, "Existence checked")
	return exists, nil
}

func (r *PostgresCommentsRepo) ListCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]types.Comment, error) {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "ListCommentsByReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("db.review.id", reviewID.String()),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT c.id, c.text, c.user_id, c.review_id, c.created_at, c.updated_at,
                u.id, u.username
         FROM comments c
         JOIN users u ON u.id = c.user_id
         WHERE c.review_id = $1
         ORDER BY c.created_at DESC`,
		reviewID)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query comments by review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		var c types.Comment
		var author types.UserSummary
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.ReviewID,
			&c.CreatedAt, &c.UpdatedAt, &author.ID, &author.Username); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		c.User = &author
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result.count", len(comments)))
	span.SetStatus(codes.Ok, "Comments listed")
	return comments, nil
}

func (r *PostgresCommentsRepo) ListCommentsByUser(ctx context.Context, userID uuid.UUID) ([]types.Comment, error) {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "ListCommentsByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT c.id, c.text, c.user_id, c.review_id, c.created_at, c.updated_at,
                rv.id, rv.text, rv.item_id, i.name
         FROM comments c
         JOIN reviews rv ON rv.id = c.review_id
         JOIN items i ON i.id = rv.item_id
         WHERE c.user_id = $1
         ORDER BY c.created_at DESC`,
		userID)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query comments by user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing user comments: %w", err)
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		var c types.Comment
		var review types.ReviewSummary
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.ReviewID, &c.CreatedAt, &c.UpdatedAt,
			&review.ID, &review.Text, &review.ItemID, &review.ItemName); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		c.Review = &review
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result.count", len(comments)))
	span.SetStatus(codes.Ok, "Comments listed")
	return comments, nil
}

func (r *PostgresCommentsRepo) GetCommentByID(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "GetCommentByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("db.comment.id", id.String()),
	))
	defer span.End()

	var c types.Comment
	var author types.UserSummary
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT c.id, c.text, c.user_id, c.review_id, c.created_at, c.updated_at,
                u.id, u.username
         FROM comments c
         JOIN users u ON u.id = c.user_id
         WHERE c.id = $1`,
		id,
	).Scan(&c.ID, &c.Text, &c.UserID, &c.ReviewID, &c.CreatedAt, &c.UpdatedAt,
		&author.ID, &author.Username)
	observeQuery(ctx, start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Comment not found")
			return nil, fmt.Errorf("comment not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query comment by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching comment: %w", err)
	}

	c.User = &author
	span.SetStatus(codes.Ok, "Comment fetched")
	return &c, nil
}

func (r *PostgresCommentsRepo) CreateComment(ctx context.Context, userID, reviewID uuid.UUID, text string) (*types.Comment, error) {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "CreateComment", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("db.review.id", reviewID.String()),
	))
	defer span.End()

	c := types.Comment{Text: text, UserID: userID, ReviewID: reviewID}
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO comments (text, user_id, review_id)
         VALUES ($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		text, userID, reviewID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	observeQuery(ctx, start, err)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			span.SetStatus(codes.Error, "Parent row missing")
			return nil, fmt.Errorf("review not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to insert comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating comment: %w", err)
	}

	span.SetStatus(codes.Ok, "Comment created")
	return &c, nil
}

func (r *PostgresCommentsRepo) UpdateComment(ctx context.Context, id uuid.UUID, text string) error {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "UpdateComment", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("db.comment.id", id.String()),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE comments SET text = $2, updated_at = NOW() WHERE id = $1`,
		id, text)
	observeQuery(ctx, start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Comment not found")
		return fmt.Errorf("comment not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Comment updated")
	return nil
}

func (r *PostgresCommentsRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("CommentsRepo").Start(ctx, "DeleteComment", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "comments"),
		attribute.String("db.comment.id", id.String()),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	observeQuery(ctx, start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Comment not found")
		return fmt.Errorf("comment not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Comment deleted")
	return nil
}
