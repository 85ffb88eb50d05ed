package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spineai/backend/models"
	"github.com/spineai/backend/services"
	"github.com/spineai/backend/utils"
	"go.uber.org/zap"
)

// TokenVerifier resolves a bearer token to the identity it was issued for
type TokenVerifier interface {
	// VerifyToken returns an unauthorized error for any token it does not accept
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)
}

// notAuthenticatedDetail mirrors the detail clients get for a missing or malformed header
const notAuthenticatedDetail = "Not authenticated"

var (
	errMissingAuthorization   = errors.New("missing authorization header")
	errMalformedAuthorization = errors.New("authorization header is not a bearer token")
)

// AuthMiddleware guards routes that require an authenticated identity
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token, err := extractBearerToken(r)
		if err != nil {
			reason := services.ReasonMalformedHeader
			if errors.Is(err, errMissingAuthorization) {
				reason = services.ReasonMissingToken
			}
			m.logger.Warn("authentication rejected",
				zap.String("request_id", requestID),
				zap.String("reason", string(reason)),
				zap.Error(err))
			m.writeUnauthorized(w, notAuthenticatedDetail, requestID)
			return
		}

		identity, err := m.verifier.VerifyToken(ctx, token)
		if err != nil || identity == nil {
			if err == nil {
				err = services.NewUnauthorizedError(services.ReasonEmptyIdentity, "invalid authentication credentials", nil)
			}
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.String("reason", string(services.GetUnauthorizedReason(err))),
				zap.Error(err))
			m.writeUnauthorized(w, "Could not validate credentials: "+services.DiagnosticOf(err), requestID)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", identity.ID))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

func (m *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, detail, requestID string) {
	if err := utils.WriteUnauthorized(w, detail); err != nil {
		m.logger.Error("failed to write unauthorized response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// extractBearerToken extracts the token from an "Authorization: Bearer <token>" header
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingAuthorization
	}

	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errMalformedAuthorization
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errMalformedAuthorization
	}
	return token, nil
}
