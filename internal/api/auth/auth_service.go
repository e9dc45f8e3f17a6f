package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-item-reviews/app/observability/metrics"
	"github.com/FACorreiaa/go-item-reviews/config"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

// dummyHash is compared against when the username does not exist so login
// always pays one bcrypt comparison (timing-attack mitigation).
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	// Register creates a new user and returns a signed access token for it.
	Register(ctx context.Context, username, email, password string) (string, *types.UserAuth, error)

	// Login authenticates a (username, password) pair and returns a signed
	// access token. Unknown username and wrong password are both reported
	// as ErrUnauthenticated, indistinguishably.
	Login(ctx context.Context, username, password string) (string, error)

	// GetUserByID resolves the current user record for a verified claim,
	// with the password hash projected out.
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	hasher PasswordHasher
	jwtCfg config.JWTConfig
}

// NewAuthService creates a new AuthService. Dependencies, including the JWT
// configuration, are injected explicitly; there is no ambient global state.
func NewAuthService(repo AuthRepo, hasher PasswordHasher, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
		jwtCfg: jwtCfg,
	}
}

// Register creates a new user with a hashed password and issues its first
// access token.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (string, *types.UserAuth, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))
	m := metrics.Get()

	// Pre-check for a friendlier conflict; the unique index still backstops
	// concurrent registrations.
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		m.RegistrationsTotal.Add(ctx, 1, metricAttrOutcome("conflict"))
		return "", nil, fmt.Errorf("username already taken: %w", types.ErrConflict)
	} else if !errors.Is(err, types.ErrNotFound) {
		m.RegistrationsTotal.Add(ctx, 1, metricAttrOutcome("error"))
		return "", nil, fmt.Errorf("error checking username availability: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		m.RegistrationsTotal.Add(ctx, 1, metricAttrOutcome("error"))
		return "", nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, email, hashed)
	if err != nil {
		m.RegistrationsTotal.Add(ctx, 1, metricAttrOutcome("error"))
		return "", nil, err
	}

	token, err := s.issueAccessToken(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token after registration", slog.Any("error", err))
		m.RegistrationsTotal.Add(ctx, 1, metricAttrOutcome("error"))
		return "", nil, err
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID))
	m.RegistrationsTotal.Add(ctx, 1, metricAttrOutcome("success"))
	return token, user, nil
}

// Login authenticates a user and returns a signed access token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))
	m := metrics.Get()

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		m.LoginAttemptsTotal.Add(ctx, 1, metricAttrOutcome("error"))
		return "", fmt.Errorf("error fetching user for login: %w", err)
	}

	// Always run one hash comparison, even for unknown usernames.
	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	match := s.hasher.Check(password, passwordHash)

	if err != nil || !match {
		l.WarnContext(ctx, "Invalid credentials")
		m.LoginAttemptsTotal.Add(ctx, 1, metricAttrOutcome("failure"))
		return "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	token, err := s.issueAccessToken(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token on login", slog.Any("error", err))
		m.LoginAttemptsTotal.Add(ctx, 1, metricAttrOutcome("error"))
		return "", err
	}

	l.InfoContext(ctx, "User logged in", slog.String("user_id", user.ID))
	m.LoginAttemptsTotal.Add(ctx, 1, metricAttrOutcome("success"))
	return token, nil
}

// GetUserByID resolves the live user record for a verified token claim.
func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		// A verified signature with a malformed subject never maps to a
		// live account.
		return nil, fmt.Errorf("malformed user id in claim: %w", types.ErrNotFound)
	}
	return s.repo.GetUserByID(ctx, id)
}

// issueAccessToken signs a self-contained bearer token for the user. The
// expiry is fixed at issuance; the token is not renewable. A missing secret
// is a fatal configuration error: no token is issued.
func (s *AuthServiceImpl) issueAccessToken(user *types.UserAuth) (string, error) {
	if s.jwtCfg.SecretKey == "" {
		return "", fmt.Errorf("jwt secret key is not set: %w", types.ErrConfiguration)
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtCfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if s.jwtCfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.jwtCfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func metricAttrOutcome(outcome string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", outcome))
}
