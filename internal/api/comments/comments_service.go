package comments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

var _ CommentsService = (*CommentsServiceImpl)(nil)

// CommentsService defines the business logic contract for comments. As with
// reviews, mutations check existence before ownership.
type CommentsService interface {
	ListCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]types.Comment, error)
	ListCommentsByUser(ctx context.Context, userID uuid.UUID) ([]types.Comment, error)
	CreateComment(ctx context.Context, userID, reviewID uuid.UUID, text string) (*types.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID uuid.UUID, text string) (*types.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}

// CommentsServiceImpl provides the implementation for CommentsService.
type CommentsServiceImpl struct {
	logger *slog.Logger
	repo   CommentsRepo
}

// NewCommentsService creates a new CommentsService.
func NewCommentsService(repo CommentsRepo, logger *slog.Logger) *CommentsServiceImpl {
	return &CommentsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ListCommentsByReview returns a review's comments, newest first. The
// review's existence is checked first so an unknown review is a 404.
func (s *CommentsServiceImpl) ListCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]types.Comment, error) {
	exists, err := s.repo.ReviewExists(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("review not found: %w", types.ErrNotFound)
	}
	return s.repo.ListCommentsByReview(ctx, reviewID)
}

func (s *CommentsServiceImpl) ListCommentsByUser(ctx context.Context, userID uuid.UUID) ([]types.Comment, error) {
	return s.repo.ListCommentsByUser(ctx, userID)
}

// CreateComment posts a comment on a review on behalf of userID.
func (s *CommentsServiceImpl) CreateComment(ctx context.Context, userID, reviewID uuid.UUID, text string) (*types.Comment, error) {
	l := s.logger.With(slog.String("method", "CreateComment"), slog.String("review_id", reviewID.String()))

	exists, err := s.repo.ReviewExists(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("review not found: %w", types.ErrNotFound)
	}

	comment, err := s.repo.CreateComment(ctx, userID, reviewID, text)
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Comment created", slog.String("comment_id", comment.ID.String()))
	return comment, nil
}

// UpdateComment replaces the text of an owned comment and returns the
// comment with the author projection.
func (s *CommentsServiceImpl) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, text string) (*types.Comment, error) {
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, fmt.Errorf("comment belongs to another user: %w", types.ErrForbidden)
	}

	if err := s.repo.UpdateComment(ctx, commentID, text); err != nil {
		return nil, err
	}
	return s.repo.GetCommentByID(ctx, commentID)
}

// DeleteComment removes an owned comment.
func (s *CommentsServiceImpl) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeleteComment"), slog.String("comment_id", commentID.String()))

	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return fmt.Errorf("comment belongs to another user: %w", types.ErrForbidden)
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	l.InfoContext(ctx, "Comment deleted")
	return nil
}
