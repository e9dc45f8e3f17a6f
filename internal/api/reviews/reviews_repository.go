package reviews

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

// SQLSTATE codes this repository translates into sentinel errors.
const (
	foreignKeyViolation = "23503"
)

// Querier is the subset of pgxpool.Pool this repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ ReviewsRepo = (*PostgresReviewsRepo)(nil)

// ReviewsRepo abstracts review persistence. Errors are reported as the
// sentinel set in internal/types, never as driver error codes.
type ReviewsRepo interface {
	// ItemExists reports whether an item with the given ID exists.
	ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error)

	// ListReviewsByItem returns an item's reviews ordered newest first, each
	// with the author projection attached.
	ListReviewsByItem(ctx context.Context, itemID uuid.UUID) ([]types.Review, error)

	// ListReviewsByUser returns a user's reviews ordered newest first, each
	// with the item projection attached.
	ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error)

	// GetReviewByID returns a review with author and item projections.
	// ErrNotFound when no such review exists.
	GetReviewByID(ctx context.Context, id uuid.UUID) (*types.Review, error)

	// CreateReview persists a new review. A missing parent row yields
	// ErrNotFound.
	CreateReview(ctx context.Context, userID, itemID uuid.UUID, params types.CreateReviewParams) (*types.Review, error)

	// UpdateReview applies a partial update. Nil fields keep their stored
	// value. ErrNotFound when no such review exists.
	UpdateReview(ctx context.Context, id uuid.UUID, params types.UpdateReviewParams) error

	// DeleteReview removes a review. ErrConflict when comments still
	// reference it, ErrNotFound when it does not exist.
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

type PostgresReviewsRepo struct {
	logger *slog.Logger
	pgpool Querier
}

func NewPostgresReviewsRepo(pgpool Querier, logger *slog.Logger) *PostgresReviewsRepo {
	return &PostgresReviewsRepo{
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

func (r *PostgresReviewsRepo) ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "ItemExists", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "items"),
	))
	defer span.End()

	var exists bool
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`, itemID,
	).Scan(&exists)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check item existence", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return false, fmt.Errorf("database error checking item existence: %w", err)
	}

	span.SetStatus(codes.Ok, "Existence checked")
	return exists, nil
}

func (r *PostgresReviewsRepo) ListReviewsByItem(ctx context.Context, itemID uuid.UUID) ([]types.Review, error) {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "ListReviewsByItem", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.item.id", itemID.String()),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT r.id, r.text, r.rating, r.user_id, r.item_id, r.created_at, r.updated_at,
                u.id, u.username
         FROM reviews r
         JOIN users u ON u.id = r.user_id
         WHERE r.item_id = $1
         ORDER BY r.created_at DESC`,
		itemID)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query reviews by item", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]types.Review, 0)
	for rows.Next() {
		var rv types.Review
		var author types.UserSummary
		if err := rows.Scan(&rv.ID, &rv.Text, &rv.Rating, &rv.UserID, &rv.ItemID,
			&rv.CreatedAt, &rv.UpdatedAt, &author.ID, &author.Username); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("error scanning review row: %w", err)
		}
		rv.User = &author
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result.count", len(reviews)))
	span.SetStatus(codes.Ok, "Reviews listed")
	return reviews, nil
}

func (r *PostgresReviewsRepo) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "ListReviewsByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT r.id, r.text, r.rating, r.user_id, r.item_id, r.created_at, r.updated_at,
                i.id, i.name
         FROM reviews r
         JOIN items i ON i.id = r.item_id
         WHERE r.user_id = $1
         ORDER BY r.created_at DESC`,
		userID)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query reviews by user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing user reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]types.Review, 0)
	for rows.Next() {
		var rv types.Review
		var item types.ItemSummary
		if err := rows.Scan(&rv.ID, &rv.Text, &rv.Rating, &rv.UserID, &rv.ItemID,
			&rv.CreatedAt, &rv.UpdatedAt, &item.ID, &item.Name); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("error scanning review row: %w", err)
		}
		rv.Item = &item
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result.count", len(reviews)))
	span.SetStatus(codes.Ok, "Reviews listed")
	return reviews, nil
}

func (r *PostgresReviewsRepo) GetReviewByID(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "GetReviewByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.review.id", id.String()),
	))
	defer span.End()

	var rv types.Review
	var author types.UserSummary
	var item types.ItemSummary
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT r.id, r.text, r.rating, r.user_id, r.item_id, r.created_at, r.updated_at,
                u.id, u.username, i.id, i.name
         FROM reviews r
         JOIN users u ON u.id = r.user_id
         JOIN items i ON i.id = r.item_id
         WHERE r.id = $1`,
		id,
	).Scan(&rv.ID, &rv.Text, &rv.Rating, &rv.UserID, &rv.ItemID, &rv.CreatedAt, &rv.UpdatedAt,
		&author.ID, &author.Username, &item.ID, &item.Name)
	observeQuery(ctx, start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Review not found")
			return nil, fmt.Errorf("review not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query review by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching review: %w", err)
	}

	rv.User = &author
	rv.Item = &item
	span.SetStatus(codes.Ok, "Review fetched")
	return &rv, nil
}

func (r *PostgresReviewsRepo) CreateReview(ctx context.Context, userID, itemID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "CreateReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.item.id", itemID.String()),
	))
	defer span.End()

	rv := types.Review{Text: params.Text, Rating: params.Rating, UserID: userID, ItemID: itemID}
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO reviews (text, rating, user_id, item_id)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at, updated_at`,
		params.Text, params.Rating, userID, itemID,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	observeQuery(ctx, start, err)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			// The parent item (or user) vanished between check and insert.
			span.SetStatus(codes.Error, "Parent row missing")
			return nil, fmt.Errorf("item not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to insert review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating review: %w", err)
	}

	span.SetStatus(codes.Ok, "Review created")
	return &rv, nil
}

func (r *PostgresReviewsRepo) UpdateReview(ctx context.Context, id uuid.UUID, params types.UpdateReviewParams) error {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "UpdateReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.review.id", id.String()),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE reviews
         SET text = COALESCE($2, text), rating = COALESCE($3, rating), updated_at = NOW()
         WHERE id = $1`,
		id, params.Text, params.Rating)
	observeQuery(ctx, start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Review not found")
		return fmt.Errorf("review not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Review updated")
	return nil
}

func (r *PostgresReviewsRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("ReviewsRepo").Start(ctx, "DeleteReview", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "reviews"),
		attribute.String("db.review.id", id.String()),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	observeQuery(ctx, start, err)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			// comments.review_id is RESTRICT; the review still has comments.
			span.SetStatus(codes.Error, "Review has dependent comments")
			return fmt.Errorf("review has dependent comments: %w", types.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to delete review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Review not found")
		return fmt.Errorf("review not found: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Review deleted")
	return nil
}
