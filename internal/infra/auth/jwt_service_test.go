package auth

import (
	"testing"
	"time"

	"bookmarket/config"
	"bookmarket/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(access, refresh string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = access
	cfg.SecretKey.Refresh = refresh

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig(
		"test_access_secret_key_very_long_for_testing",
		"test_refresh_secret_key_very_long_for_testing",
	))
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := int64(42)

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig(
		"test_access_secret_key_very_long_for_testing",
		"test_refresh_secret_key_very_long_for_testing",
	))
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(7)
	require.NoError(t, err)

	// A refresh token must not pass access validation, and vice versa.
	// The secrets differ, so the signature check already fails.
	_, err = jwtService.ValidateAccessToken(refreshToken)
	assert.Error(t, err)

	_, err = jwtService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig(
		"test_access_secret_key_very_long_for_testing",
		"test_refresh_secret_key_very_long_for_testing",
	))
	require.NoError(t, err)

	accessToken, _, err := jwtService.GenerateTokens(7)
	require.NoError(t, err)

	tampered := accessToken[:len(accessToken)-2] + "xx"
	claims, err := jwtService.ValidateAccessToken(tampered)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig("access_secret", "refresh_secret"))
	require.NoError(t, err)

	svc, ok := tokenService.(*jwtService)
	require.True(t, ok)

	// Mint tokens that expired a minute ago; signature and type are fine.
	expiredAccess, err := svc.generateToken(7, -time.Minute, svc.accessSecret, service.TokenTypeAccess)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(expiredAccess)
	assert.Error(t, err)
	assert.Nil(t, claims)

	expiredRefresh, err := svc.generateToken(7, -time.Minute, svc.refreshSecret, service.TokenTypeRefresh)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(expiredRefresh)
	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTService(newTestConfig("issuer_access_secret", "issuer_refresh_secret"))
	require.NoError(t, err)

	verifier, err := NewJWTService(newTestConfig("other_access_secret", "other_refresh_secret"))
	require.NoError(t, err)

	accessToken, _, err := issuer.GenerateTokens(7)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("", ""))
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_HashToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("access_secret", "refresh_secret"))
	require.NoError(t, err)

	h1 := jwtService.HashToken("some-refresh-token")
	h2 := jwtService.HashToken("some-refresh-token")
	h3 := jwtService.HashToken("another-refresh-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // SHA-256 hex digest
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("access_secret", "refresh_secret"))
	require.NoError(t, err)

	assert.Equal(t, 30*24*time.Hour, jwtService.GetRefreshTokenDuration())
}
