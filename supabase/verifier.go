package supabase

import (
	"context"
	"errors"
	"strings"

	"github.com/spineai/backend/models"
	"github.com/spineai/backend/services"
)

// UserGetter resolves an access token to a provider user record
type UserGetter interface {
	GetUser(ctx context.Context, token string) (*User, error)
}

// Verifier verifies bearer tokens against Supabase Auth.
// Every call goes to the provider; results are never cached.
type Verifier struct {
	users    UserGetter
	precheck *JWTPrecheck
}

// NewVerifier creates a new Verifier. precheck may be nil.
func NewVerifier(users UserGetter, precheck *JWTPrecheck) *Verifier {
	return &Verifier{
		users:    users,
		precheck: precheck,
	}
}

// VerifyToken returns the identity the token was issued for. All failures are
// unauthorized domain errors; the reason detail separates provider outages
// from rejected tokens for logging only.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, services.NewUnauthorizedError(services.ReasonMissingToken, "empty bearer token", nil)
	}

	if v.precheck != nil {
		if err := v.precheck.Check(token); err != nil {
			return nil, services.NewUnauthorizedError(services.ReasonPrecheckFailed, "token rejected", err)
		}
	}

	user, err := v.users.GetUser(ctx, token)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return nil, services.NewUnauthorizedError(services.ReasonRejected, "identity provider rejected token", err)
		}
		return nil, services.NewUnauthorizedError(services.ReasonProviderUnavailable, "identity provider unavailable", err)
	}

	if user == nil || user.ID == "" {
		return nil, services.NewUnauthorizedError(services.ReasonEmptyIdentity, "invalid authentication credentials", nil)
	}

	return user.Identity(), nil
}
