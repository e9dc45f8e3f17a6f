package items

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

// Querier is the subset of pgxpool.Pool this repository uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ ItemsRepo = (*PostgresItemsRepo)(nil)

// ItemsRepo abstracts read access to the item catalog. Items are seeded out
// of band; there are no write operations here.
type ItemsRepo interface {
	// ListItems returns the catalog ordered by name ascending.
	ListItems(ctx context.Context) ([]types.Item, error)

	// GetItemByID returns a single item. ErrNotFound when none exists.
	GetItemByID(ctx context.Context, id uuid.UUID) (*types.Item, error)
}

type PostgresItemsRepo struct {
	logger *slog.Logger
	pgpool Querier
}

func NewPostgresItemsRepo(pgpool Querier, logger *slog.Logger) *PostgresItemsRepo {
	return &PostgresItemsRepo{
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

func (r *PostgresItemsRepo) ListItems(ctx context.Context) ([]types.Item, error) {
	ctx, span := otel.Tracer("ItemsRepo").Start(ctx, "ListItems", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "items"),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), created_at, updated_at
         FROM items ORDER BY name ASC`)
	observeQuery(ctx, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query items", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing items: %w", err)
	}
	defer rows.Close()

	items := make([]types.Item, 0)
	for rows.Next() {
		var it types.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.CreatedAt, &it.UpdatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("error scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result.count", len(items)))
	span.SetStatus(codes.Ok, "Items listed")
	return items, nil
}

func (r *PostgresItemsRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*types.Item, error) {
	ctx, span := otel.Tracer("ItemsRepo").Start(ctx, "GetItemByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "items"),
		attribute.String("db.item.id", id.String()),
	))
	defer span.End()

	var it types.Item
	start := time.Now()
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), created_at, updated_at
         FROM items WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.CreatedAt, &it.UpdatedAt)
	observeQuery(ctx, start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Item not found")
			return nil, fmt.Errorf("item not found: %w", types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query item by id", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching item: %w", err)
	}

	span.SetStatus(codes.Ok, "Item fetched")
	return &it, nil
}
