package reviews

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-item-reviews/internal/api"
	"github.com/FACorreiaa/go-item-reviews/internal/api/auth"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

var _ Handler = (*ReviewsHandlerImpl)(nil)

// Handler defines the HTTP surface for reviews.
type Handler interface {
	ListItemReviews(w http.ResponseWriter, r *http.Request)
	GetReview(w http.ResponseWriter, r *http.Request)
	ListMyReviews(w http.ResponseWriter, r *http.Request)
	CreateReview(w http.ResponseWriter, r *http.Request)
	UpdateReview(w http.ResponseWriter, r *http.Request)
	DeleteReview(w http.ResponseWriter, r *http.Request)
}

// ReviewsHandlerImpl handles HTTP requests related to reviews.
type ReviewsHandlerImpl struct {
	reviewsService ReviewsService
	logger         *slog.Logger
}

// NewReviewsHandlerImpl creates a new ReviewsHandlerImpl instance.
func NewReviewsHandlerImpl(reviewsService ReviewsService, logger *slog.Logger) *ReviewsHandlerImpl {
	return &ReviewsHandlerImpl{
		reviewsService: reviewsService,
		logger:         logger,
	}
}

// currentUserID reads the authenticated user ID attached by the auth
// middleware. Routes using it must be mounted behind Authenticate.
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ListItemReviews godoc
// @Summary      List reviews for an item
// @Description  Returns an item's reviews, newest first, with author details
// @Tags         reviews
// @Produce      json
// @Param        itemID path string true "Item ID" format(uuid)
// @Success      200 {array} types.Review
// @Failure      400 {object} api.Response "Invalid item ID format"
// @Failure      404 {object} api.Response "Item not found"
// @Router       /items/{itemID}/reviews [get]
func (h *ReviewsHandlerImpl) ListItemReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	revs, err := h.reviewsService.ListReviewsByItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to list item reviews", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, revs)
}

// GetReview godoc
// @Summary      Get review
// @Description  Returns a single review with author and item details
// @Tags         reviews
// @Produce      json
// @Param        reviewID path string true "Review ID" format(uuid)
// @Success      200 {object} types.Review
// @Failure      400 {object} api.Response "Invalid review ID format"
// @Failure      404 {object} api.Response "Review not found"
// @Router       /reviews/{reviewID} [get]
func (h *ReviewsHandlerImpl) GetReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	review, err := h.reviewsService.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Review not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch review")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, review)
}

// ListMyReviews godoc
// @Summary      List own reviews
// @Description  Returns the authenticated user's reviews with item details
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.Review
// @Failure      401 {object} api.Response "Unauthorized"
// @Router       /reviews/me [get]
func (h *ReviewsHandlerImpl) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	revs, err := h.reviewsService.ListReviewsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list user reviews", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, revs)
}

// CreateReview godoc
// @Summary      Post a review
// @Description  Creates a review on an item for the authenticated user
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemID path string true "Item ID" format(uuid)
// @Param        request body CreateReviewRequest true "Review content"
// @Success      201 {object} types.Review
// @Failure      400 {object} api.Response "Invalid request"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Item not found"
// @Router       /items/{itemID}/reviews [post]
func (h *ReviewsHandlerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateReview"))

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req CreateReviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Text) == "" || req.Rating == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Review text and rating are required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Rating must be a number between 1 and 5")
		return
	}

	review, err := h.reviewsService.CreateReview(ctx, userID, itemID, types.CreateReviewParams{
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Item not found")
			return
		}
		l.ErrorContext(ctx, "Failed to create review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create review")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, review)
}

// UpdateReview godoc
// @Summary      Update a review
// @Description  Updates the text and/or rating of an owned review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reviewID path string true "Review ID" format(uuid)
// @Param        request body UpdateReviewRequest true "Fields to update"
// @Success      200 {object} types.Review
// @Failure      400 {object} api.Response "Invalid request"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      403 {object} api.Response "Not the review owner"
// @Failure      404 {object} api.Response "Review not found"
// @Router       /reviews/{reviewID} [put]
func (h *ReviewsHandlerImpl) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateReview"))

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	var req UpdateReviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Text == nil && req.Rating == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Review text or rating must be provided for update")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Rating must be a number between 1 and 5")
		return
	}

	review, err := h.reviewsService.UpdateReview(ctx, userID, reviewID, types.UpdateReviewParams{
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Review not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Forbidden: You are not authorized to update this review")
		default:
			l.ErrorContext(ctx, "Failed to update review", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update review")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, review)
}

// DeleteReview godoc
// @Summary      Delete a review
// @Description  Deletes an owned review that has no comments
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        reviewID path string true "Review ID" format(uuid)
// @Success      200 {object} MessageResponse "Review deleted successfully"
// @Failure      400 {object} api.Response "Invalid review ID format"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      403 {object} api.Response "Not the review owner"
// @Failure      404 {object} api.Response "Review not found"
// @Failure      409 {object} api.Response "Review has comments"
// @Router       /reviews/{reviewID} [delete]
func (h *ReviewsHandlerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteReview"))

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	if err := h.reviewsService.DeleteReview(ctx, userID, reviewID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Review not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Forbidden: You are not authorized to delete this review")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Cannot delete review, related data exists (e.g., comments)")
		default:
			l.ErrorContext(ctx, "Failed to delete review", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete review")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Review deleted successfully"})
}
