package items

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

var _ ItemsService = (*ItemsServiceImpl)(nil)

// ItemsService defines the business logic contract for the item catalog.
type ItemsService interface {
	ListItems(ctx context.Context) ([]types.Item, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*types.Item, error)
}

// ItemsServiceImpl provides the implementation for ItemsService.
type ItemsServiceImpl struct {
	logger *slog.Logger
	repo   ItemsRepo
}

// NewItemsService creates a new ItemsService.
func NewItemsService(repo ItemsRepo, logger *slog.Logger) *ItemsServiceImpl {
	return &ItemsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ItemsServiceImpl) ListItems(ctx context.Context) ([]types.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *ItemsServiceImpl) GetItemByID(ctx context.Context, id uuid.UUID) (*types.Item, error) {
	return s.repo.GetItemByID(ctx, id)
}
