// Package auth verifies Supabase Auth access tokens for the dashboard. Any signed-in user is
// allowed; there is no finer authorization model.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/daffadev/pamer-backend/config"
)

const authenticatedRole = "authenticated"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotSignedIn  = errors.New("token does not belong to a signed-in user")
)

// Verifier checks an access token and returns its claims.
type Verifier interface {
	VerifyToken(tokenString string) (*SupabaseClaims, error)
}

// TokenVerifier validates tokens with either a shared HS256 secret or a JWKS endpoint.
type TokenVerifier struct {
	keyfunc jwt.Keyfunc
	methods []string
	logger  zerolog.Logger
}

// NewHS256Verifier verifies tokens signed with the project's legacy JWT secret.
func NewHS256Verifier(secret string, logger zerolog.Logger) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &TokenVerifier{
		keyfunc: func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
		logger:  logger,
	}, nil
}

// NewJWKSVerifier fetches the project's public signing keys. keyfunc refreshes them in the
// background until ctx is cancelled.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger zerolog.Logger) (*TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info().Str("jwksURL", jwksURL).Msg("JWT verifier initialized")
	return &TokenVerifier{
		keyfunc: jwks.Keyfunc,
		methods: []string{"RS256", "ES256"},
		logger:  logger,
	}, nil
}

// NewFromConfig prefers SUPABASE_JWKS_URL and falls back to SUPABASE_JWT_SECRET.
func NewFromConfig(ctx context.Context, c map[string]string, logger zerolog.Logger) (*TokenVerifier, error) {
	if jwksURL := config.GetString(c, "SUPABASE_JWKS_URL", ""); jwksURL != "" {
		return NewJWKSVerifier(ctx, jwksURL, logger)
	}
	return NewHS256Verifier(config.GetString(c, "SUPABASE_JWT_SECRET", ""), logger)
}

func (v *TokenVerifier) VerifyToken(tokenString string) (*SupabaseClaims, error) {
	claims := &SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug().Err(err).Msg("token parse failed")
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.Role != authenticatedRole || claims.IsAnonymous {
		v.logger.Warn().Str("role", claims.Role).Str("userID", claims.Subject).Msg("token rejected")
		return nil, ErrNotSignedIn
	}

	return claims, nil
}
