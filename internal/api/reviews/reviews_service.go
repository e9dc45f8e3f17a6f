package reviews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

var _ ReviewsService = (*ReviewsServiceImpl)(nil)

// ReviewsService defines the business logic contract for reviews. Mutations
// check existence before ownership, so an unknown review is always 404 even
// for a caller who would not own it.
type ReviewsService interface {
	ListReviewsByItem(ctx context.Context, itemID uuid.UUID) ([]types.Review, error)
	ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error)
	GetReviewByID(ctx context.Context, id uuid.UUID) (*types.Review, error)
	CreateReview(ctx context.Context, userID, itemID uuid.UUID, params types.CreateReviewParams) (*types.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
}

// ReviewsServiceImpl provides the implementation for ReviewsService.
type ReviewsServiceImpl struct {
	logger *slog.Logger
	repo   ReviewsRepo
}

// NewReviewsService creates a new ReviewsService.
func NewReviewsService(repo ReviewsRepo, logger *slog.Logger) *ReviewsServiceImpl {
	return &ReviewsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListReviewsByItem returns an item's reviews, newest first. The item's
// existence is checked first so an unknown item is a 404, not an empty list.
func (s *ReviewsServiceImpl) ListReviewsByItem(ctx context.Context, itemID uuid.UUID) ([]types.Review, error) {
	exists, err := s.repo.ItemExists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("item not found: %w", types.ErrNotFound)
	}
	return s.repo.ListReviewsByItem(ctx, itemID)
}

func (s *ReviewsServiceImpl) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	return s.repo.ListReviewsByUser(ctx, userID)
}

func (s *ReviewsServiceImpl) GetReviewByID(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	return s.repo.GetReviewByID(ctx, id)
}

// CreateReview posts a review on an item on behalf of userID.
func (s *ReviewsServiceImpl) CreateReview(ctx context.Context, userID, itemID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	l := s.logger.With(slog.String("method", "CreateReview"), slog.String("item_id", itemID.String()))

	exists, err := s.repo.ItemExists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("item not found: %w", types.ErrNotFound)
	}

	review, err := s.repo.CreateReview(ctx, userID, itemID, params)
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Review created", slog.String("review_id", review.ID.String()))
	return review, nil
}

// UpdateReview applies a partial update after the ownership gate and returns
// the review with author and item projections.
func (s *ReviewsServiceImpl) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("review belongs to another user: %w", types.ErrForbidden)
	}

	if err := s.repo.UpdateReview(ctx, reviewID, params); err != nil {
		return nil, err
	}
	return s.repo.GetReviewByID(ctx, reviewID)
}

// DeleteReview removes a review after the ownership gate. A review that
// still has comments is reported as a conflict.
func (s *ReviewsServiceImpl) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteReview"), slog.String("review_id", reviewID.String()))

	review, err := s.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return fmt.Errorf("review belongs to another user: %w", types.ErrForbidden)
	}

	if err := s.repo.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	l.InfoContext(ctx, "Review deleted")
	return nil
}
