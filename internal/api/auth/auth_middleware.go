package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-item-reviews/app/observability/metrics"
	"github.com/FACorreiaa/go-item-reviews/config"
	"github.com/FACorreiaa/go-item-reviews/internal/api"
	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

// Typed context keys for values set by Authenticate.
type contextKey string

const UserKey contextKey = "currentUser"
const UserIDKey contextKey = "userID"

// UserFinder resolves the live user record for a verified token claim.
// Implemented by AuthService; declared here because the middleware is the
// consumer.
type UserFinder interface {
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
}

// Authenticate is the identity-resolution middleware for protected routes.
// It is a gate, not a transform: either it attaches a verified identity to
// the request context and passes control on, or it finalizes the response
// itself with 401. Exactly one user lookup is performed per request; a valid
// signature alone is not sufficient (the account must still exist).
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig, users UserFinder) func(next http.Handler) http.Handler {
	secretKey := []byte(jwtCfg.SecretKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			headerParts := strings.SplitN(authHeader, " ", 2)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				l.WarnContext(ctx, "Missing or malformed Authorization header")
				rejectToken(ctx, "missing_header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, no token provided or invalid format")
				return
			}

			tokenString := strings.TrimSpace(headerParts[1])
			if tokenString == "" {
				l.WarnContext(ctx, "Empty bearer token")
				rejectToken(ctx, "empty_token")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, invalid token format in header")
				return
			}

			if len(secretKey) == 0 {
				// Fail closed: without a secret nothing can be verified.
				l.ErrorContext(ctx, "JWT secret key is not configured")
				api.ErrorResponse(w, r, http.StatusInternalServerError, "server misconfigured")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secretKey, nil
			})

			if err != nil || !token.Valid {
				reason, errMsg := classifyTokenError(err)
				l.WarnContext(ctx, "Token verification failed",
					slog.String("reason", reason), slog.Any("error", err))
				rejectToken(ctx, reason)
				api.ErrorResponse(w, r, http.StatusUnauthorized, errMsg)
				return
			}

			if jwtCfg.Issuer != "" && claims.Issuer != jwtCfg.Issuer {
				l.WarnContext(ctx, "Token issuer mismatch", slog.String("actual", claims.Issuer))
				rejectToken(ctx, "issuer_mismatch")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, token error: invalid issuer")
				return
			}
			if jwtCfg.Audience != "" && !verifyAudience(claims.Audience, jwtCfg.Audience) {
				l.WarnContext(ctx, "Token audience mismatch")
				rejectToken(ctx, "audience_mismatch")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, token error: invalid audience")
				return
			}

			// Re-resolve the current account; a token may outlive its user.
			user, err := users.GetUserByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					l.WarnContext(ctx, "Token subject no longer exists", slog.String("user_id", claims.UserID))
					rejectToken(ctx, "user_missing")
					api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authorized, user not found")
					return
				}
				l.ErrorContext(ctx, "Failed to resolve user for token", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve user")
				return
			}

			ctx = context.WithValue(ctx, UserKey, user)
			ctx = context.WithValue(ctx, UserIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// classifyTokenError maps a jwt/v5 parse error to a metrics reason and the
// client-facing message. Expiry is reported distinctly from signature and
// format failures.
func classifyTokenError(err error) (reason, message string) {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired", "Not authorized, token expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed", "Not authorized, token error: token is malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature", "Not authorized, token error: signature is invalid"
	default:
		return "invalid", "Not authorized, token error: token is invalid"
	}
}

func rejectToken(ctx context.Context, reason string) {
	metrics.Get().TokenRejectionsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}

func verifyAudience(claimsAudience jwt.ClaimStrings, expected string) bool {
	for _, aud := range claimsAudience {
		if aud == expected {
			return true
		}
	}
	return false
}

// GetUserFromContext returns the identity attached by Authenticate.
func GetUserFromContext(ctx context.Context) (*types.UserAuth, bool) {
	user, ok := ctx.Value(UserKey).(*types.UserAuth)
	return user, ok
}

// GetUserIDFromContext returns the authenticated user's ID.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
