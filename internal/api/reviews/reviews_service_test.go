package reviews

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

// MockReviewsRepo is a mock implementation of ReviewsRepo
type MockReviewsRepo struct {
	mock.Mock
}

func (m *MockReviewsRepo) ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewsRepo) ListReviewsByItem(ctx context.Context, itemID uuid.UUID) ([]types.Review, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *MockReviewsRepo) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *MockReviewsRepo) GetReviewByID(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockReviewsRepo) CreateReview(ctx context.Context, userID, itemID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, userID, itemID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockReviewsRepo) UpdateReview(ctx context.Context, id uuid.UUID, params types.UpdateReviewParams) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *MockReviewsRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupReviewsServiceTest() (*ReviewsServiceImpl, *MockReviewsRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockReviewsRepo)
	service := NewReviewsService(mockRepo, logger)
	return service, mockRepo
}

func TestReviewsServiceImpl_ListReviewsByItem(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()

	t.Run("unknown item is not found, not an empty list", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		mockRepo.On("ItemExists", ctx, itemID).Return(false, nil).Once()

		_, err := service.ListReviewsByItem(ctx, itemID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		mockRepo.AssertNotCalled(t, "ListReviewsByItem")
	})

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		expected := []types.Review{{ID: uuid.New(), Text: "great", Rating: 5}}
		mockRepo.On("ItemExists", ctx, itemID).Return(true, nil).Once()
		mockRepo.On("ListReviewsByItem", ctx, itemID).Return(expected, nil).Once()

		revs, err := service.ListReviewsByItem(ctx, itemID)
		require.NoError(t, err)
		assert.Equal(t, expected, revs)
		mockRepo.AssertExpectations(t)
	})
}

func TestReviewsServiceImpl_CreateReview(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()
	params := types.CreateReviewParams{Text: "great", Rating: 5}

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		expected := &types.Review{ID: uuid.New(), Text: "great", Rating: 5, UserID: userID, ItemID: itemID}
		mockRepo.On("ItemExists", ctx, itemID).Return(true, nil).Once()
		mockRepo.On("CreateReview", ctx, userID, itemID, params).Return(expected, nil).Once()

		review, err := service.CreateReview(ctx, userID, itemID, params)
		require.NoError(t, err)
		assert.Equal(t, expected, review)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown item", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		mockRepo.On("ItemExists", ctx, itemID).Return(false, nil).Once()

		_, err := service.CreateReview(ctx, userID, itemID, params)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrNotFound))
		mockRepo.AssertNotCalled(t, "CreateReview")
	})
}

func TestReviewsServiceImpl_OwnershipMatrix(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	reviewID := uuid.New()
	stored := &types.Review{ID: reviewID, Text: "original", Rating: 4, UserID: owner}
	newText := "updated"
	params := types.UpdateReviewParams{Text: &newText}

	t.Run("owner can update", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		updated := &types.Review{ID: reviewID, Text: newText, Rating: 4, UserID: owner}
		mockRepo.On("GetReviewByID", ctx, reviewID).Return(stored, nil).Once()
		mockRepo.On("UpdateReview", ctx, reviewID, params).Return(nil).Once()
		mockRepo.On("GetReviewByID", ctx, reviewID).Return(updated, nil).Once()

		review, err := service.UpdateReview(ctx, owner, reviewID, params)
		require.NoError(t, err)
		assert.Equal(t, newText, review.Text)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		mockRepo.On("GetReviewByID", ctx, reviewID).Return(stored, nil).Once()

		_, err := service.UpdateReview(ctx, stranger, reviewID, params)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		mockRepo.AssertNotCalled(t, "UpdateReview")
	})

	t.Run("owner can delete", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		mockRepo.On("GetReviewByID", ctx, reviewID).Return(stored, nil).Once()
		mockRepo.On("DeleteReview", ctx, reviewID).Return(nil).Once()

		err := service.DeleteReview(ctx, owner, reviewID)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		mockRepo.On("GetReviewByID", ctx, reviewID).Return(stored, nil).Once()

		err := service.DeleteReview(ctx, stranger, reviewID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		mockRepo.AssertNotCalled(t, "DeleteReview")
	})

	t.Run("missing review is not found before ownership", func(t *testing.T) {
		service, mockRepo := setupReviewsServiceTest()
		mockRepo.On("GetReviewByID", ctx, reviewID).
			Return(nil, fmt.Errorf("review not found: %w", types.ErrNotFound)).Twice()

		_, err := service.UpdateReview(ctx, stranger, reviewID, params)
		assert.True(t, errors.Is(err, types.ErrNotFound))

		err = service.DeleteReview(ctx, stranger, reviewID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestReviewsServiceImpl_DeleteReview_Conflict(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	reviewID := uuid.New()
	stored := &types.Review{ID: reviewID, UserID: owner}

	service, mockRepo := setupReviewsServiceTest()
	mockRepo.On("GetReviewByID", ctx, reviewID).Return(stored, nil).Once()
	mockRepo.On("DeleteReview", ctx, reviewID).
		Return(fmt.Errorf("review has dependent comments: %w", types.ErrConflict)).Once()

	err := service.DeleteReview(ctx, owner, reviewID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrConflict))
	mockRepo.AssertExpectations(t)
}
