package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "facultysite",
		AccessTokenTTL: time.Hour,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)
	require.Equal(t, time.Hour, svc.AccessTokenTTL())

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: "user-123", SessionID: "session-456"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, "session-456", claims.SessionID)
	require.Equal(t, "facultysite", claims.Issuer)
	require.True(t, claims.ExpiresAt.Time.Equal(current.Add(time.Hour)))
}

func TestValidateAccessTokenInvalidSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	issuer, err := NewJWTService(JWTConfig{Secret: "issuer-secret", Clock: now})
	require.NoError(t, err)
	token, err := issuer.GenerateAccessToken(AccessTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	verifier, err := NewJWTService(JWTConfig{Secret: "other-secret", Clock: now})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestValidateAccessTokenExpired(t *testing.T) {
	current := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)

	svc, err := NewJWTService(JWTConfig{
		Secret:         "secret",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{UserID: "user-123"})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	_, err = svc.ValidateAccessToken(token)
	require.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestActionTokenRoundTrip(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{
		Secret: "secret",
		Issuer: "facultysite",
		Clock:  func() time.Time { return current },
	})
	require.NoError(t, err)

	input := ActionTokenInput{Purpose: "email_verification", UserID: "u-1", Email: "a@example.com", TTL: 24 * time.Hour}
	first, expiresAt, err := svc.GenerateActionToken(input)
	require.NoError(t, err)
	require.True(t, expiresAt.Equal(current.Add(24*time.Hour)))

	second, _, err := svc.GenerateActionToken(input)
	require.NoError(t, err)
	require.NotEqual(t, first, second, "tokens issued in the same second must differ")

	claims, err := svc.ParseActionToken("email_verification", first)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)

	_, err = svc.ParseActionToken("password_reset", first)
	require.ErrorIs(t, err, ErrWrongPurpose)
}

func TestParseActionTokenExpiredKeepsClaims(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{Secret: "secret", Clock: func() time.Time { return current }})
	require.NoError(t, err)

	token, _, err := svc.GenerateActionToken(ActionTokenInput{Purpose: "password_reset", UserID: "u-1", TTL: time.Hour})
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)

	claims, err := svc.ParseActionToken("password_reset", token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
	require.NotNil(t, claims)
	require.Equal(t, "u-1", claims.UserID)
}

func TestParseActionTokenTampered(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	token, _, err := svc.GenerateActionToken(ActionTokenInput{Purpose: "password_reset", UserID: "u-1", TTL: time.Hour})
	require.NoError(t, err)

	claims, err := svc.ParseActionToken("password_reset", token+"x")
	require.Error(t, err)
	require.Nil(t, claims)

	_, err = svc.ParseActionToken("password_reset", "not-a-jwt")
	require.Error(t, err)
}

func TestGenerateActionTokenValidatesInput(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, _, err = svc.GenerateActionToken(ActionTokenInput{UserID: "u", TTL: time.Hour})
	require.Error(t, err)
	_, _, err = svc.GenerateActionToken(ActionTokenInput{Purpose: "p", TTL: time.Hour})
	require.Error(t, err)
	_, _, err = svc.GenerateActionToken(ActionTokenInput{Purpose: "p", UserID: "u"})
	require.Error(t, err)
}
