package comments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

// MockCommentsRepo is a mock implementation of CommentsRepo
type MockCommentsRepo struct {
	mock.Mock
}

func (m *MockCommentsRepo) ReviewExists(ctx context.Context, reviewID uuid.UUID) (bool, error) {
	args := m.Called(ctx, reviewID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentsRepo) ListCommentsByReview(ctx context.Context, reviewID uuid.UUID) ([]types.Comment, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Comment), args.Error(1)
}

func (m *MockCommentsRepo) ListCommentsByUser(ctx context.Context, userID uuid.UUID) ([]types.Comment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Comment), args.Error(1)
}

func (m *MockCommentsRepo) GetCommentByID(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockCommentsRepo) CreateComment(ctx context.Context, userID, reviewID uuid.UUID, text string) (*types.Comment, error) {
	args := m.Called(ctx, userID, reviewID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockCommentsRepo) UpdateComment(ctx context.Context, id uuid.UUID, text string) error {
	args := m.Called(ctx, id, text)
	return args.Error(0)
}

func (m *MockCommentsRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupCommentsServiceTest() (*CommentsServiceImpl, *MockCommentsRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockCommentsRepo)
	service := NewCommentsService(mockRepo, logger)
	return service, mockRepo
}

func TestCommentsServiceImpl_ListCommentsByReview(t *testing.T) {
	ctx := context.Background()
	reviewID := uuid.New()

	t.Run("unknown review is not found", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		mockRepo.On("ReviewExists", ctx, reviewID).Return(false, nil).Once()

		_, err := service.ListCommentsByReview(ctx, reviewID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		mockRepo.AssertNotCalled(t, "ListCommentsByReview")
	})

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		expected := []types.Comment{{ID: uuid.New(), Text: "agreed"}}
		mockRepo.On("ReviewExists", ctx, reviewID).Return(true, nil).Once()
		mockRepo.On("ListCommentsByReview", ctx, reviewID).Return(expected, nil).Once()

		cs, err := service.ListCommentsByReview(ctx, reviewID)
		require.NoError(t, err)
		assert.Equal(t, expected, cs)
	})
}

func TestCommentsServiceImpl_CreateComment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	reviewID := uuid.New()

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		created := &types.Comment{ID: uuid.New(), Text: "agreed", UserID: userID, ReviewID: reviewID}
		mockRepo.On("ReviewExists", ctx, reviewID).Return(true, nil).Once()
		mockRepo.On("CreateComment", ctx, userID, reviewID, "agreed").Return(created, nil).Once()

		comment, err := service.CreateComment(ctx, userID, reviewID, "agreed")
		require.NoError(t, err)
		assert.Equal(t, created, comment)
	})

	t.Run("unknown review", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		mockRepo.On("ReviewExists", ctx, reviewID).Return(false, nil).Once()

		_, err := service.CreateComment(ctx, userID, reviewID, "agreed")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		mockRepo.AssertNotCalled(t, "CreateComment")
	})
}

func TestCommentsServiceImpl_OwnershipMatrix(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	commentID := uuid.New()
	stored := &types.Comment{ID: commentID, Text: "original", UserID: owner}

	t.Run("owner can update", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		updated := &types.Comment{ID: commentID, Text: "edited", UserID: owner}
		mockRepo.On("GetCommentByID", ctx, commentID).Return(stored, nil).Once()
		mockRepo.On("UpdateComment", ctx, commentID, "edited").Return(nil).Once()
		mockRepo.On("GetCommentByID", ctx, commentID).Return(updated, nil).Once()

		comment, err := service.UpdateComment(ctx, owner, commentID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", comment.Text)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		mockRepo.On("GetCommentByID", ctx, commentID).Return(stored, nil).Once()

		_, err := service.UpdateComment(ctx, stranger, commentID, "mine now")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		mockRepo.AssertNotCalled(t, "UpdateComment")
	})

	t.Run("owner can delete", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		mockRepo.On("GetCommentByID", ctx, commentID).Return(stored, nil).Once()
		mockRepo.On("DeleteComment", ctx, commentID).Return(nil).Once()

		err := service.DeleteComment(ctx, owner, commentID)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		mockRepo.On("GetCommentByID", ctx, commentID).Return(stored, nil).Once()

		err := service.DeleteComment(ctx, stranger, commentID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		mockRepo.AssertNotCalled(t, "DeleteComment")
	})

	t.Run("missing comment is not found before ownership", func(t *testing.T) {
		service, mockRepo := setupCommentsServiceTest()
		mockRepo.On("GetCommentByID", ctx, commentID).
			Return(nil, fmt.Errorf("comment not found: %w", types.ErrNotFound)).Twice()

		_, err := service.UpdateComment(ctx, stranger, commentID, "edited")
		assert.True(t, errors.Is(err, types.ErrNotFound))

		err = service.DeleteComment(ctx, stranger, commentID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}
