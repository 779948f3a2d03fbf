package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/config"
)

func newTestAuthService(secret string) *AuthService {
	return NewAuthService(nil, config.AuthConfig{
		SecretKey:        secret,
		AccessTTLMinutes: 20,
		RefreshTTLDays:   7,
	})
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	svc := newTestAuthService("test-secret")

	opaque, err := randomToken()
	require.NoError(t, err)

	wire, err := svc.wrap(opaque)
	require.NoError(t, err)
	assert.NotEqual(t, opaque, wire)

	got, err := svc.unwrap(wire)
	require.NoError(t, err)
	assert.Equal(t, opaque, got)
}

func TestUnwrapRejectsWrongSecret(t *testing.T) {
	signer := newTestAuthService("secret-a")
	verifier := newTestAuthService("secret-b")

	wire, err := signer.wrap("opaque-token")
	require.NoError(t, err)

	_, err = verifier.unwrap(wire)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestUnwrapRejectsGarbage(t *testing.T) {
	svc := newTestAuthService("test-secret")

	_, err := svc.unwrap("not-a-jwt")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestRandomTokenUniqueAndURLSafe(t *testing.T) {
	a, err := randomToken()
	require.NoError(t, err)
	b, err := randomToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes, unpadded base64url
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}
