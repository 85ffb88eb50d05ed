package supabase

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken is returned when the token is not a valid project JWT
	ErrInvalidToken = errors.New("invalid token")
)

// JWTPrecheck rejects tokens that cannot have been issued by the project
// before a round trip to the auth API. It never produces an identity.
type JWTPrecheck struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTPrecheck creates a precheck for tokens signed with the project JWT secret.
// Returns nil when secret is empty.
func NewJWTPrecheck(secret string) *JWTPrecheck {
	if secret == "" {
		return nil
	}
	return &JWTPrecheck{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Check validates signature and expiry of token
func (p *JWTPrecheck) Check(token string) error {
	_, err := p.parser.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}
