package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-item-reviews/internal/api"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

var _ Handler = (*AuthHandlerImpl)(nil)

// Handler defines the HTTP surface for authentication.
type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

// AuthHandlerImpl handles HTTP requests related to authentication.
type AuthHandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

// NewAuthHandlerImpl creates a new AuthHandlerImpl instance.
func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *AuthHandlerImpl {
	return &AuthHandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user account and returns an access token for it
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} RegisterResponse "User registered successfully"
// @Failure      400 {object} api.Response "Invalid request"
// @Failure      409 {object} api.Response "Username already taken"
// @Failure      500 {object} api.Response "Internal server error"
// @Router       /auth/register [post]
func (h *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password required.")
		return
	}

	token, user, err := h.authService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Username already taken")
		case errors.Is(err, types.ErrConfiguration):
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Authentication configuration error.")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, RegisterResponse{
		Token:   token,
		User:    user,
		Message: "User registered successfully",
	})
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates a username and password and returns an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse "Login successful"
// @Failure      400 {object} api.Response "Invalid request"
// @Failure      401 {object} api.Response "Invalid credentials"
// @Failure      500 {object} api.Response "Internal server error"
// @Router       /auth/login [post]
func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password required.")
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUnauthenticated):
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, types.ErrConfiguration):
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Authentication configuration error.")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		Token:   token,
		Message: "Login successful",
	})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the profile of the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.UserAuth
// @Failure      401 {object} api.Response "Unauthorized"
// @Router       /auth/me [get]
func (h *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		// Only reachable if the route was wired without Authenticate.
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}
