package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daffadev/pamer-backend/auth"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func mint(t *testing.T, key string, claims auth.SupabaseClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func signedIn(expiresIn time.Duration) auth.SupabaseClaims {
	return auth.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "8d0fd2b3-9ca7-4c1e-a3c4-1f0f6b1d2e11",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		Email: "daffa@example.com",
		Role:  "authenticated",
	}
}

func TestVerifyToken(t *testing.T) {
	v, err := auth.NewHS256Verifier(secret, zerolog.Nop())
	require.NoError(t, err)

	claims, err := v.VerifyToken(mint(t, secret, signedIn(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "8d0fd2b3-9ca7-4c1e-a3c4-1f0f6b1d2e11", claims.GetUserID())
	assert.Equal(t, "daffa@example.com", claims.Email)
}

func TestVerifyTokenRejects(t *testing.T) {
	v, err := auth.NewHS256Verifier(secret, zerolog.Nop())
	require.NoError(t, err)

	anon := signedIn(time.Hour)
	anon.Role = "anon"

	noSubject := signedIn(time.Hour)
	noSubject.Subject = ""

	noExpiry := signedIn(time.Hour)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "expired", token: mint(t, secret, signedIn(-time.Minute)), want: auth.ErrInvalidToken},
		{name: "wrong secret", token: mint(t, "another-secret-another-secret-another", signedIn(time.Hour)), want: auth.ErrInvalidToken},
		{name: "garbage", token: "not-a-jwt", want: auth.ErrInvalidToken},
		{name: "missing subject", token: mint(t, secret, noSubject), want: auth.ErrInvalidToken},
		{name: "missing expiry", token: mint(t, secret, noExpiry), want: auth.ErrInvalidToken},
		{name: "anonymous role", token: mint(t, secret, anon), want: auth.ErrNotSignedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifyTokenRejectsOtherAlgorithms(t *testing.T) {
	v, err := auth.NewHS256Verifier(secret, zerolog.Nop())
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, signedIn(time.Hour)).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = v.VerifyToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewFromConfigRequiresKeys(t *testing.T) {
	_, err := auth.NewFromConfig(context.Background(), map[string]string{}, zerolog.Nop())
	assert.Error(t, err)

	v, err := auth.NewFromConfig(context.Background(), map[string]string{"SUPABASE_JWT_SECRET": secret}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, v)
}
