package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-item-reviews/app/db"
	"github.com/FACorreiaa/go-item-reviews/config"
	"github.com/FACorreiaa/go-item-reviews/internal/api/auth"
	"github.com/FACorreiaa/go-item-reviews/internal/api/comments"
	"github.com/FACorreiaa/go-item-reviews/internal/api/items"
	"github.com/FACorreiaa/go-item-reviews/internal/api/reviews"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	AuthService     *auth.AuthServiceImpl
	AuthHandler     *auth.AuthHandlerImpl
	ItemsHandler    *items.ItemsHandlerImpl
	ReviewsHandler  *reviews.ReviewsHandlerImpl
	CommentsHandler *comments.CommentsHandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	// Repositories
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	itemsRepo := items.NewPostgresItemsRepo(pool, logger)
	reviewsRepo := reviews.NewPostgresReviewsRepo(pool, logger)
	commentsRepo := comments.NewPostgresCommentsRepo(pool, logger)

	// Services
	hasher := auth.NewBcryptHasher(0)
	authService := auth.NewAuthService(authRepo, hasher, cfg.JWT, logger)
	itemsService := items.NewItemsService(itemsRepo, logger)
	reviewsService := reviews.NewReviewsService(reviewsRepo, logger)
	commentsService := comments.NewCommentsService(commentsRepo, logger)

	// Handlers
	authHandlerImpl := auth.NewAuthHandlerImpl(authService, logger)
	itemsHandlerImpl := items.NewItemsHandlerImpl(itemsService, logger)
	reviewsHandlerImpl := reviews.NewReviewsHandlerImpl(reviewsService, logger)
	commentsHandlerImpl := comments.NewCommentsHandlerImpl(commentsService, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		AuthService:     authService,
		AuthHandler:     authHandlerImpl,
		ItemsHandler:    itemsHandlerImpl,
		ReviewsHandler:  reviewsHandlerImpl,
		CommentsHandler: commentsHandlerImpl,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
