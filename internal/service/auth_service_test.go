package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/document-service/internal/config"
)

func newAuthFixture() *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			AccessTokenTTLHour: 24,
			BcryptCost:         4, // minimum cost keeps the test fast
		},
	}
	return NewAuthService(cfg, newFakeUserRepo())
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc := newAuthFixture()

	user, token, _, err := svc.Register(context.Background(), "a@example.com", "Ada", "Lovelace", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), "a@example.com", "", "", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "a@example.com", "", "", "other")
	requireCode(t, err, "CONFLICT", http.StatusConflict)
}

func TestLogin(t *testing.T) {
	svc := newAuthFixture()

	registered, _, _, err := svc.Register(context.Background(), "a@example.com", "", "", "s3cret")
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), "a@example.com", "", "", "s3cret")
	require.NoError(t, err)

	// wrong password and unknown email fail identically
	_, _, _, err = svc.Login(context.Background(), "a@example.com", "wrong")
	requireCode(t, err, "UNAUTHORIZED", http.StatusUnauthorized)

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	requireCode(t, err, "UNAUTHORIZED", http.StatusUnauthorized)
}
