package comments

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

// CommentRequest represents the expected JSON body for posting or updating a
// comment.
type CommentRequest struct {
	Text string `json:"text" example:"Totally agree with this."`
}

// MessageResponse is the envelope for message-only success payloads.
type MessageResponse struct {
	Message string `json:"message" example:"Comment deleted successfully"`
}

var _ Handler = (*CommentsHandlerImpl)(nil)

// Handler defines the HTTP surface for comments.
type Handler interface {
	ListReviewComments(w http.ResponseWriter, r *http.Request)
	ListMyComments(w http.ResponseWriter, r *http.Request)
	CreateComment(w http.ResponseWriter, r *http.Request)
	UpdateComment(w http.ResponseWriter, r *http.Request)
	DeleteComment(w http.ResponseWriter, r *http.Request)
}

// CommentsHandlerImpl handles HTTP requests related to comments.
type CommentsHandlerImpl struct {
	commentsService CommentsService
	logger          *slog.Logger
}

// NewCommentsHandlerImpl creates a new CommentsHandlerImpl instance.
func NewCommentsHandlerImpl(commentsService CommentsService, logger *slog.Logger) *CommentsHandlerImpl {
	return &CommentsHandlerImpl{
		commentsService: commentsService,
		logger:          logger,
	}
}

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

// ListReviewComments godoc
// @Summary      List comments for a review
// @Description  Returns a review's comments, newest first, with author details
// @Tags         comments
// @Produce      json
// @Param        reviewID path string true "Review ID" format(uuid)
// @Success      200 {array} types.Comment
// @Failure      400 {object} api.Response "Invalid review ID format"
// @Failure      404 {object} api.Response "Review not found"
// @Router       /reviews/{reviewID}/comments [get]
func (h *CommentsHandlerImpl) ListReviewComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	cs, err := h.commentsService.ListCommentsByReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Review not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to list review comments", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, cs)
}

// ListMyComments godoc
// @Summary      List own comments
// @Description  Returns the authenticated user's comments with review details
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.Comment
// @Failure      401 {object} api.Response "Unauthorized"
// @Router       /comments/me [get]
func (h *CommentsHandlerImpl) ListMyComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	cs, err := h.commentsService.ListCommentsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list user comments", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, cs)
}

// CreateComment godoc
// @Summary      Post a comment
// @Description  Creates a comment on a review for the authenticated user
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reviewID path string true "Review ID" format(uuid)
// @Param        request body CommentRequest true "Comment content"
// @Success      201 {object} types.Comment
// @Failure      400 {object} api.Response "Invalid request"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Review not found"
// @Router       /reviews/{reviewID}/comments [post]
func (h *CommentsHandlerImpl) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateComment"))

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

	var req CommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Comment text cannot be empty")
		return
	}

	comment, err := h.commentsService.CreateComment(ctx, userID, reviewID, req.Text)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Review not found")
			return
		}
		l.ErrorContext(ctx, "Failed to create comment", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, comment)
}

// UpdateComment godoc
// @Summary      Update a comment
// @Description  Replaces the text of an owned comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentID path string true "Comment ID" format(uuid)
// @Param        request body CommentRequest true "New comment text"
// @Success      200 {object} types.Comment
// @Failure      400 {object} api.Response "Invalid request"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      403 {object} api.Response "Not the comment owner"
// @Failure      404 {object} api.Response "Comment not found"
// @Router       /comments/{commentID} [put]
func (h *CommentsHandlerImpl) UpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateComment"))

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	var req CommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Comment text cannot be empty")
		return
	}

	comment, err := h.commentsService.UpdateComment(ctx, userID, commentID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Comment not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Forbidden: You are not authorized to update this comment")
		default:
			l.ErrorContext(ctx, "Failed to update comment", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update comment")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Deletes an owned comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentID path string true "Comment ID" format(uuid)
// @Success      200 {object} MessageResponse "Comment deleted successfully"
// @Failure      400 {object} api.Response "Invalid comment ID format"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      403 {object} api.Response "Not the comment owner"
// @Failure      404 {object} api.Response "Comment not found"
// @Router       /comments/{commentID} [delete]
func (h *CommentsHandlerImpl) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteComment"))

	userID, ok := currentUserID(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	if err := h.commentsService.DeleteComment(ctx, userID, commentID); err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Comment not found")
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Forbidden: You are not authorized to delete this comment")
		default:
			l.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete comment")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "Comment deleted successfully"})
}
