package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-item-reviews/internal/api/auth"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

// MockReviewsService is a mock implementation of ReviewsService
type MockReviewsService struct {
	mock.Mock
}

func (m *MockReviewsService) ListReviewsByItem(ctx context.Context, itemID uuid.UUID) ([]types.Review, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *MockReviewsService) ListReviewsByUser(ctx context.Context, userID uuid.UUID) ([]types.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *MockReviewsService) GetReviewByID(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockReviewsService) CreateReview(ctx context.Context, userID, itemID uuid.UUID, params types.CreateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, userID, itemID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockReviewsService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, params types.UpdateReviewParams) (*types.Review, error) {
	args := m.Called(ctx, userID, reviewID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockReviewsService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	args := m.Called(ctx, userID, reviewID)
	return args.Error(0)
}

// reviewsTestRouter mounts the handler on the real route shapes so URL
// params resolve through chi.
func reviewsTestRouter(handler *ReviewsHandlerImpl) chi.Router {
	r := chi.NewRouter()
	r.Get("/items/{itemID}/reviews", handler.ListItemReviews)
	r.Post("/items/{itemID}/reviews", handler.CreateReview)
	r.Get("/reviews/{reviewID}", handler.GetReview)
	r.Put("/reviews/{reviewID}", handler.UpdateReview)
	r.Delete("/reviews/{reviewID}", handler.DeleteReview)
	r.Get("/reviews/me", handler.ListMyReviews)
	return r
}

func setupReviewsHandlerTest() (chi.Router, *MockReviewsService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockReviewsService)
	handler := NewReviewsHandlerImpl(mockService, logger)
	return reviewsTestRouter(handler), mockService
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	return req.WithContext(ctx)
}

func TestReviewsHandlerImpl_ListItemReviews(t *testing.T) {
	t.Run("malformed item id", func(t *testing.T) {
		router, _ := setupReviewsHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/items/not-a-uuid/reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid item ID format")
	})

	t.Run("unknown item", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		itemID := uuid.New()
		mockService.On("ListReviewsByItem", mock.Anything, itemID).
			Return(nil, fmt.Errorf("item not found: %w", types.ErrNotFound)).Once()

		req := httptest.NewRequest(http.MethodGet, "/items/"+itemID.String()+"/reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Item not found")
	})

	t.Run("success with author projection", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		itemID := uuid.New()
		revs := []types.Review{{
			ID:     uuid.New(),
			Text:   "great",
			Rating: 5,
			ItemID: itemID,
			User:   &types.UserSummary{ID: uuid.New().String(), Username: "alice"},
		}}
		mockService.On("ListReviewsByItem", mock.Anything, itemID).Return(revs, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/items/"+itemID.String()+"/reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})
}

func TestReviewsHandlerImpl_CreateReview(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("success", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		params := types.CreateReviewParams{Text: "great", Rating: 5}
		created := &types.Review{ID: uuid.New(), Text: "great", Rating: 5, UserID: userID, ItemID: itemID}
		mockService.On("CreateReview", mock.Anything, userID, itemID, params).Return(created, nil).Once()

		body, _ := json.Marshal(CreateReviewRequest{Text: "great", Rating: 5})
		req := asUser(httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/reviews", bytes.NewReader(body)), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("missing text and rating", func(t *testing.T) {
		router, _ := setupReviewsHandlerTest()

		body, _ := json.Marshal(CreateReviewRequest{})
		req := asUser(httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/reviews", bytes.NewReader(body)), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Review text and rating are required")
	})

	t.Run("rating out of range", func(t *testing.T) {
		router, _ := setupReviewsHandlerTest()

		body, _ := json.Marshal(CreateReviewRequest{Text: "meh", Rating: 6})
		req := asUser(httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/reviews", bytes.NewReader(body)), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Rating must be a number between 1 and 5")
	})
}

func TestReviewsHandlerImpl_UpdateReview(t *testing.T) {
	userID := uuid.New()
	reviewID := uuid.New()

	t.Run("neither field provided", func(t *testing.T) {
		router, _ := setupReviewsHandlerTest()

		req := asUser(httptest.NewRequest(http.MethodPut, "/reviews/"+reviewID.String(), bytes.NewReader([]byte(`{}`))), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Review text or rating must be provided for update")
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		newText := "mine now"
		mockService.On("UpdateReview", mock.Anything, userID, reviewID, types.UpdateReviewParams{Text: &newText}).
			Return(nil, fmt.Errorf("review belongs to another user: %w", types.ErrForbidden)).Once()

		body, _ := json.Marshal(UpdateReviewRequest{Text: &newText})
		req := asUser(httptest.NewRequest(http.MethodPut, "/reviews/"+reviewID.String(), bytes.NewReader(body)), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Forbidden: You are not authorized to update this review")
	})

	t.Run("rating only update succeeds", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		rating := 2
		updated := &types.Review{ID: reviewID, Text: "same", Rating: rating, UserID: userID}
		mockService.On("UpdateReview", mock.Anything, userID, reviewID, types.UpdateReviewParams{Rating: &rating}).
			Return(updated, nil).Once()

		body, _ := json.Marshal(UpdateReviewRequest{Rating: &rating})
		req := asUser(httptest.NewRequest(http.MethodPut, "/reviews/"+reviewID.String(), bytes.NewReader(body)), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestReviewsHandlerImpl_DeleteReview(t *testing.T) {
	userID := uuid.New()
	reviewID := uuid.New()

	t.Run("success", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		mockService.On("DeleteReview", mock.Anything, userID, reviewID).Return(nil).Once()

		req := asUser(httptest.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Review deleted successfully")
	})

	t.Run("conflict when comments exist", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		mockService.On("DeleteReview", mock.Anything, userID, reviewID).
			Return(fmt.Errorf("review has dependent comments: %w", types.ErrConflict)).Once()

		req := asUser(httptest.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Cannot delete review, related data exists")
	})

	t.Run("not found before forbidden", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		mockService.On("DeleteReview", mock.Anything, userID, reviewID).
			Return(fmt.Errorf("review not found: %w", types.ErrNotFound)).Once()

		req := asUser(httptest.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Review not found")
	})
}

func TestReviewsHandlerImpl_ListMyReviews(t *testing.T) {
	userID := uuid.New()

	t.Run("nests item summary", func(t *testing.T) {
		router, mockService := setupReviewsHandlerTest()
		revs := []types.Review{{
			ID:     uuid.New(),
			Text:   "great",
			Rating: 5,
			UserID: userID,
			Item:   &types.ItemSummary{ID: uuid.New(), Name: "The Cozy Cafe"},
		}}
		mockService.On("ListReviewsByUser", mock.Anything, userID).Return(revs, nil).Once()

		req := asUser(httptest.NewRequest(http.MethodGet, "/reviews/me", nil), userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "The Cozy Cafe")
	})

	t.Run("missing identity", func(t *testing.T) {
		router, _ := setupReviewsHandlerTest()

		req := httptest.NewRequest(http.MethodGet, "/reviews/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
